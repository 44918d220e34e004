package middleware // middleware contains reusable HTTP middleware functions

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/clinic-management/internal/config"
    "github.com/iliyamo/clinic-management/internal/result"
    "github.com/iliyamo/clinic-management/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// (signature, expiry, issuer and audience) and stores the subject and role
// claims on the request context under "user_id" and "role".  Protected
// handlers read them back via c.Get().
func JWTAuth(cfg config.Config) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                res := result.Unauthorized[any](nil, "missing bearer token.")
                return c.JSON(http.StatusUnauthorized, res)
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            claims, err := utils.ParseAccessToken(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, raw)
            if err != nil {
                res := result.Unauthorized[any](nil, "invalid token.")
                return c.JSON(http.StatusUnauthorized, res)
            }
            uid, err := strconv.ParseUint(claims.Subject, 10, 64)
            if err != nil || uid == 0 {
                res := result.Unauthorized[any](nil, "invalid token.")
                return c.JSON(http.StatusUnauthorized, res)
            }

            c.Set("user_id", uid)
            c.Set("role", claims.Role)
            return next(c)
        }
    }
}
