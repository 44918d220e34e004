package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/clinic-management/internal/result"
)

// RequireRole enforces that the authenticated user carries one of the given
// roles.  It assumes JWTAuth already stored the role claim under "role"; a
// missing or disallowed role is rejected with 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, ok := c.Get("role").(string)
            if !ok || !allowed[role] {
                res := result.Fail[any](nil, result.KindAuthentication, "forbidden.", http.StatusForbidden)
                return c.JSON(http.StatusForbidden, res)
            }
            return next(c)
        }
    }
}
