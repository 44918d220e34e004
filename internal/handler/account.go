package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/clinic-management/internal/config"
    "github.com/iliyamo/clinic-management/internal/model"
    "github.com/iliyamo/clinic-management/internal/repository"
    "github.com/iliyamo/clinic-management/internal/result"
    "github.com/iliyamo/clinic-management/internal/utils"
)

// refreshCookieName is the HTTP-only cookie the refresh token travels in.
// The refresh endpoint reads it from here, never from the request body.
const refreshCookieName = "RefreshToken"

// UserStore is the slice of the user repository the account handler needs.
// Declared here so tests can substitute an in-memory implementation.
type UserStore interface {
    Create(ctx context.Context, email, passwordHash, firstName, lastName, role string) (uint64, error)
    GetByEmail(ctx context.Context, email string) (model.User, error)
    GetByID(ctx context.Context, id uint64) (model.User, error)
    UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// TokenStore is the slice of the token repository the account handler needs.
type TokenStore interface {
    StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
    ConsumeRefresh(ctx context.Context, tokenHash string) (uint64, error)
    RevokeByHash(ctx context.Context, tokenHash string) error
    RevokeAllForUser(ctx context.Context, userID uint64) error
}

// AccountHandler bundles dependencies for the account endpoints.
type AccountHandler struct {
    Cfg    config.Config
    Users  UserStore
    Tokens TokenStore
}

func NewAccountHandler(cfg config.Config, u UserStore, t TokenStore) *AccountHandler {
    return &AccountHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
    Email     string `json:"email"`
    Password  string `json:"password"`
    FirstName string `json:"firstName"`
    LastName  string `json:"lastName"`
    Role      string `json:"role"` // DOCTOR | PATIENT (ADMIN is seeded, never self-assigned)
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}
type forgetPasswordReq struct {
    Email       string `json:"email"`
    NewPassword string `json:"newPassword"`
}

// LoginResponse is the payload of a successful login or refresh.
type LoginResponse struct {
    Success      bool   `json:"success"`
    Token        string `json:"token"`
    RefreshToken string `json:"refreshToken"`
}

// GeneralResponse is the payload of register/forget-password/logout.
type GeneralResponse struct {
    Success bool   `json:"success"`
    Message string `json:"message"`
}

// anyBlank is the credential validator: it fails fast when any required
// string field is empty or whitespace-only.  It runs before any store access
// and callers get no field-level diagnostics, only the fixed envelope from
// result.Invalid.
func anyBlank(fields ...string) bool {
    for _, f := range fields {
        if strings.TrimSpace(f) == "" {
            return true
        }
    }
    return false
}

// Register creates a login account.  Uniqueness of the email is delegated to
// the store's constraint.
func (h *AccountHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, result.Invalid(GeneralResponse{}))
    }
    if anyBlank(req.Email, req.Password, req.FirstName, req.LastName) {
        return c.JSON(http.StatusBadRequest, result.Invalid(GeneralResponse{}))
    }
    role := strings.ToUpper(strings.TrimSpace(req.Role))
    if role != model.RoleDoctor {
        role = model.RolePatient
    }

    hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
    if err != nil {
        return h.internal(c, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Users.Create(ctx, req.Email, hash, req.FirstName, req.LastName, role); err != nil {
        if errors.Is(err, repository.ErrEmailExists) {
            res := result.Fail(GeneralResponse{Message: "email already exists."},
                result.KindPersistence, "email already exists.", http.StatusConflict)
            return c.JSON(res.StatusCode, res)
        }
        return h.internal(c, err)
    }

    res := result.OKWithStatus(GeneralResponse{Success: true, Message: "account created."}, http.StatusCreated)
    return c.JSON(res.StatusCode, res)
}

// Login verifies credentials and issues an access/refresh token pair.  The
// failure message is identical for an unknown email and a wrong password so
// the endpoint cannot be used to enumerate accounts.
func (h *AccountHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, result.Invalid(LoginResponse{}))
    }
    if anyBlank(req.Email, req.Password) {
        return c.JSON(http.StatusBadRequest, result.Invalid(LoginResponse{}))
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByEmail(ctx, req.Email)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            utils.BurnPasswordCheck(req.Password) // keep timing close to the hash-mismatch path
            return h.badCredentials(c)
        }
        return h.internal(c, err)
    }
    if !utils.VerifyPassword(u.PasswordHash, req.Password) {
        return h.badCredentials(c)
    }

    return h.issuePair(c, ctx, u)
}

// RefreshToken rotates the refresh token from the RefreshToken cookie and
// returns a fresh pair.  The request has no body.  Rotation is atomic in the
// store: a token refreshes exactly once, and a replayed or concurrent attempt
// fails with an authentication error.
func (h *AccountHandler) RefreshToken(c echo.Context) error {
    cookie, err := c.Cookie(refreshCookieName)
    if err != nil || strings.TrimSpace(cookie.Value) == "" {
        res := result.Unauthorized(LoginResponse{}, "refresh token missing.")
        return c.JSON(res.StatusCode, res)
    }
    hash := utils.HashRefreshRaw(strings.TrimSpace(cookie.Value))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    userID, err := h.Tokens.ConsumeRefresh(ctx, hash)
    if err != nil {
        if errors.Is(err, repository.ErrTokenConsumed) {
            res := result.Unauthorized(LoginResponse{}, "invalid or expired refresh token.")
            return c.JSON(res.StatusCode, res)
        }
        return h.internal(c, err)
    }

    u, err := h.Users.GetByID(ctx, userID)
    if err != nil {
        return h.internal(c, err)
    }
    return h.issuePair(c, ctx, u)
}

// ForgetPassword replaces the password for an account.  The response for an
// unknown email is a generic failure, mirroring the login endpoint.
//
// Note: there is no reset token or OTP step here; the endpoint trusts that
// identity was verified upstream.
func (h *AccountHandler) ForgetPassword(c echo.Context) error {
    var req forgetPasswordReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, result.Invalid(GeneralResponse{}))
    }
    if anyBlank(req.Email, req.NewPassword) {
        return c.JSON(http.StatusBadRequest, result.Invalid(GeneralResponse{}))
    }

    hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
    if err != nil {
        return h.internal(c, err)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Users.UpdatePassword(ctx, req.Email, hash); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            res := result.Fail(GeneralResponse{Message: "unable to reset password."},
                result.KindAuthentication, "unable to reset password.", http.StatusBadRequest)
            return c.JSON(res.StatusCode, res)
        }
        return h.internal(c, err)
    }

    res := result.OK(GeneralResponse{Success: true, Message: "password updated."})
    return c.JSON(res.StatusCode, res)
}

// Logout revokes the refresh token from the cookie.  When a valid bearer
// token is presented and no cookie is set, all of the user's refresh tokens
// are revoked instead (logout everywhere).
func (h *AccountHandler) Logout(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if cookie, err := c.Cookie(refreshCookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
        if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(strings.TrimSpace(cookie.Value))); err != nil {
            return h.internal(c, err)
        }
        h.clearRefreshCookie(c)
        res := result.OK(GeneralResponse{Success: true, Message: "logged out."})
        return c.JSON(res.StatusCode, res)
    }

    auth := c.Request().Header.Get("Authorization")
    if strings.HasPrefix(auth, "Bearer ") {
        claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, h.Cfg.JWTIssuer, h.Cfg.JWTAudience,
            strings.TrimPrefix(auth, "Bearer "))
        if err == nil {
            if uid, perr := strconv.ParseUint(claims.Subject, 10, 64); perr == nil && uid != 0 {
                if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
                    return h.internal(c, err)
                }
                res := result.OK(GeneralResponse{Success: true, Message: "logged out of all sessions."})
                return c.JSON(res.StatusCode, res)
            }
        }
    }

    res := result.Unauthorized(GeneralResponse{}, "no session to log out.")
    return c.JSON(res.StatusCode, res)
}

// Me returns the authenticated caller's profile; a simple protected
// endpoint clients use to resolve the bearer token.
func (h *AccountHandler) Me(c echo.Context) error {
    uid := currentUserID(c)
    if uid == 0 {
        res := result.Unauthorized[any](nil, "unauthorized.")
        return c.JSON(res.StatusCode, res)
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    u, err := h.Users.GetByID(ctx, uid)
    if err != nil {
        return h.internal(c, err)
    }
    res := result.OK(echo.Map{
        "id":        u.ID,
        "email":     u.Email,
        "firstName": u.FirstName,
        "lastName":  u.LastName,
        "role":      u.Role,
    })
    return c.JSON(res.StatusCode, res)
}

// issuePair mints an access token and a rotated refresh token for u, persists
// the refresh hash, sets the RefreshToken cookie and writes the envelope.
func (h *AccountHandler) issuePair(c echo.Context, ctx context.Context, u model.User) error {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, h.Cfg.JWTIssuer, h.Cfg.JWTAudience,
        strconv.FormatUint(u.ID, 10), u.Role, h.Cfg.AccessTTLMin)
    if err != nil {
        return h.internal(c, err)
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return h.internal(c, err)
    }
    if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return h.internal(c, err)
    }

    h.setRefreshCookie(c, refresh.Raw)
    res := result.OK(LoginResponse{Success: true, Token: access.Token, RefreshToken: refresh.Raw})
    return c.JSON(res.StatusCode, res)
}

// badCredentials writes the shared generic credential failure.
func (h *AccountHandler) badCredentials(c echo.Context) error {
    res := result.Unauthorized(LoginResponse{}, "invalid email or password.")
    return c.JSON(res.StatusCode, res)
}

// internal logs the cause server-side and writes a sanitized envelope with a
// null payload.  The error chain never reaches the client.
func (h *AccountHandler) internal(c echo.Context, err error) error {
    c.Logger().Errorf("account: %v", err)
    res := result.Persistence[any](err)
    return c.JSON(res.StatusCode, res)
}

func (h *AccountHandler) setRefreshCookie(c echo.Context, raw string) {
    c.SetCookie(&http.Cookie{
        Name:     refreshCookieName,
        Value:    raw,
        Path:     "/api/account",
        Expires:  time.Now().UTC().Add(time.Duration(h.Cfg.RefreshCookieDays) * 24 * time.Hour),
        HttpOnly: true,
        Secure:   true,
        SameSite: http.SameSiteStrictMode,
    })
}

func (h *AccountHandler) clearRefreshCookie(c echo.Context) {
    c.SetCookie(&http.Cookie{
        Name:     refreshCookieName,
        Value:    "",
        Path:     "/api/account",
        MaxAge:   -1,
        HttpOnly: true,
        Secure:   true,
        SameSite: http.SameSiteStrictMode,
    })
}
