package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "unit-test-secret"
	testIssuer   = "clinic-api"
	testAudience = "clinic-clients"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, testIssuer, testAudience, "42", "DOCTOR", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := ParseAccessToken(testSecret, testIssuer, testAudience, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "DOCTOR", claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, testIssuer, testAudience, "1", "PATIENT", 15)
	require.NoError(t, err)

	_, err = ParseAccessToken("another-secret", testIssuer, testAudience, tok.Token)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsWrongIssuerOrAudience(t *testing.T) {
	tok, err := NewAccessToken(testSecret, testIssuer, testAudience, "1", "PATIENT", 15)
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, "other-issuer", testAudience, tok.Token)
	assert.Error(t, err)

	_, err = ParseAccessToken(testSecret, testIssuer, "other-audience", tok.Token)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	tok, err := NewAccessToken(testSecret, testIssuer, testAudience, "1", "PATIENT", -1)
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, testIssuer, testAudience, tok.Token)
	assert.Error(t, err)
}

func TestNewRefreshTokenIsOpaqueAndUnique(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96) // 48 random bytes hex-encoded
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.True(t, a.Exp.After(time.Now().UTC().AddDate(0, 0, 6)))
	assert.True(t, a.Exp.Before(time.Now().UTC().AddDate(0, 0, 8)))
}

func TestHashRefreshRaw(t *testing.T) {
	h1 := HashRefreshRaw("some-token")
	h2 := HashRefreshRaw("some-token")
	h3 := HashRefreshRaw("other-token")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // sha256 hex digest
	assert.NotContains(t, h1, "some-token")
}
