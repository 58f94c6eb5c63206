package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Claims is the token payload issued by the dev server.
type Claims struct {
	ID         int64  `json:"id"`
	UserType   string `json:"userType"`
	RoleID     int    `json:"roleId"`
	BuildingID *int64 `json:"buildingId,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the claims stored by Auth or Optional.
func Identity(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(identityKey).(*Claims)
	return claims, ok && claims != nil
}

// Auth validates the bearer JWT and injects its claims into the context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return authenticate(jwtSecret, true)
}

// Optional is Auth for endpoints that also accept anonymous calls: a
// missing header passes through, a bad token is still rejected.
func Optional(jwtSecret string) echo.MiddlewareFunc {
	return authenticate(jwtSecret, false)
}

func authenticate(jwtSecret string, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				if !required {
					return next(c)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := &Claims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(identityKey, claims)
			return next(c)
		}
	}
}
