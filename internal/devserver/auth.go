package devserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/obraportal/portal-client/internal/devserver/middleware"
)

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type authHandler struct {
	store  *store
	secret string
	ttl    time.Duration
}

// login authenticates against the seeded accounts and returns a signed JWT.
func (h *authHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	acc, err := h.store.authenticate(req.Username, req.Password)
	if err != nil {
		return err
	}
	token, err := h.generateToken(acc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token})
}

func (h *authHandler) generateToken(acc account) (string, error) {
	now := time.Now()
	claims := &middleware.Claims{
		ID:         acc.ID,
		UserType:   string(acc.Kind),
		RoleID:     acc.RoleID,
		BuildingID: acc.BuildingID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(acc.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.secret))
}
