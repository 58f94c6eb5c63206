package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func sign(t *testing.T, claims *Claims, secret string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func run(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, *Claims, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *Claims
	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		seen, _ = Identity(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, seen, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	building := int64(4)
	token := sign(t, &Claims{ID: 9, UserType: "CUSTOMER", BuildingID: &building}, "secret")

	rec, claims, called := run(t, Auth("secret"), "Bearer "+token)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next called with 200, got %d", rec.Code)
	}
	if claims == nil || claims.ID != 9 || claims.UserType != "CUSTOMER" || *claims.BuildingID != 4 {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	expired := sign(t, &Claims{ID: 1, UserType: "WORKER", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}}, "secret")
	wrongKey := sign(t, &Claims{ID: 1, UserType: "WORKER"}, "other")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"bad scheme", "Token abc"},
		{"garbage", "Bearer abc.def"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, called := run(t, Auth("secret"), tt.header)
			if called {
				t.Fatal("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestOptionalMiddleware(t *testing.T) {
	rec, claims, called := run(t, Optional("secret"), "")
	if !called || rec.Code != http.StatusOK || claims != nil {
		t.Fatalf("anonymous call should pass without identity, got %d %+v", rec.Code, claims)
	}

	rec, _, called = run(t, Optional("secret"), "Bearer nope")
	if called || rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token must still be rejected, got %d", rec.Code)
	}
}
