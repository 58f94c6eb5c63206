package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const workerKind = "WORKER"

// RequireWorker admits workers whose role is in roles; with no roles any
// worker is admitted. Must run after Auth.
func RequireWorker(roles ...int) echo.MiddlewareFunc {
	allowed := make(map[int]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := Identity(c)
			if !ok || id.UserType != workerKind {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			if len(allowed) > 0 {
				if _, ok := allowed[id.RoleID]; !ok {
					return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
				}
			}
			return next(c)
		}
	}
}
