package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA-256 hashing for refresh tokens
    "encoding/hex"  // hex encoding for token values and digests
    "time"          // expiry computation

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken is a signed HS256 JWT plus its expiry.  Access tokens are
// short-lived and carried in the Authorization header on protected requests.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// RefreshToken is a long-lived opaque token exchanged for new access tokens.
// Raw is the value handed to the client (and set as the RefreshToken cookie);
// only its SHA-256 hash is ever persisted.
type RefreshToken struct {
    Raw string    // raw token string returned to the client
    Exp time.Time // UTC expiration time
}

// TokenClaims mirrors the claims stamped onto every access token: the user id
// as subject, the user's role, and the configured issuer/audience.  Embedding
// RegisteredClaims gives exp/iat/iss/aud handling for free.
type TokenClaims struct {
    Role string `json:"role"`
    jwt.RegisteredClaims
}

// NewAccessToken mints an HS256 JWT for a user.  Subject is the user id,
// role/issuer/audience come from the caller (configuration), and expiry is
// now+ttlMin.  The issuer and audience are validated again on every protected
// request by the auth middleware.
func NewAccessToken(secret, issuer, audience, userID, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := TokenClaims{
        Role: role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   userID,
            Issuer:    issuer,
            Audience:  jwt.ClaimStrings{audience},
            ExpiresAt: jwt.NewNumericDate(exp),
            IssuedAt:  jwt.NewNumericDate(now),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature, expiry, issuer and audience, and
// returns the claims.  Only HS256 is accepted.
func ParseAccessToken(secret, issuer, audience, raw string) (*TokenClaims, error) {
    var claims TokenClaims
    _, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
        return []byte(secret), nil
    },
        jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
        jwt.WithIssuer(issuer),
        jwt.WithAudience(audience),
        jwt.WithExpirationRequired(),
    )
    if err != nil {
        return nil, err
    }
    return &claims, nil
}

// NewRefreshToken returns a cryptographically random opaque token and its
// expiry, ttlDays from now.  It is independent of the access token: nothing
// about the user is derivable from the value.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
    raw, err := randomHex(48) // 48 bytes -> 96 hex chars
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{
        Raw: raw,
        Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
    }, nil
}

// HashRefreshRaw returns the SHA-256 hash of a raw refresh token as hex.
// Storing only the hash means a leaked refresh_tokens table cannot be used
// to refresh sessions.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex string generated from n bytes of crypto/rand data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
