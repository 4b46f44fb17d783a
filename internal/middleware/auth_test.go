package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
)

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	m := &AuthMiddleware{}
	e := echo.New()
	handler := m.Authenticate()(func(c echo.Context) error {
		t.Fatal("handler should not run without a token")
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	var body problemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.Type != errorTypeUnauthorized {
		t.Errorf("type = %q, want %q", body.Type, errorTypeUnauthorized)
	}
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	m := &AuthMiddleware{}
	e := echo.New()
	handler := m.Authenticate()(func(c echo.Context) error {
		t.Fatal("handler should not run with a malformed header")
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestGetAuth0IDEmptyWithoutContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	if got := GetAuth0ID(c); got != "" {
		t.Errorf("GetAuth0ID = %q, want empty", got)
	}
	if GetClaims(c) != nil {
		t.Error("GetClaims should be nil without authentication")
	}
	if GetCustomClaims(c) != nil {
		t.Error("GetCustomClaims should be nil without authentication")
	}
	if got := GetDisplayName(c); got != "" {
		t.Errorf("GetDisplayName = %q, want empty", got)
	}
}

func TestGetDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		claims CustomClaims
		want   string
	}{
		{"prefers name", CustomClaims{Name: "Carlos Souza", Email: "carlos@munck.app"}, "Carlos Souza"},
		{"falls back to email", CustomClaims{Email: "carlos@munck.app"}, "carlos@munck.app"},
		{"empty claims", CustomClaims{}, ""},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			validated := &validator.ValidatedClaims{CustomClaims: &tt.claims}
			ctx := context.WithValue(req.Context(), ClaimsKey, validated)
			req = req.WithContext(ctx)
			c := e.NewContext(req, httptest.NewRecorder())

			if got := GetDisplayName(c); got != tt.want {
				t.Errorf("GetDisplayName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCustomClaimsValidate(t *testing.T) {
	claims := CustomClaims{Email: "ops@munck.app"}
	if err := claims.Validate(context.Background()); err != nil {
		t.Errorf("Validate returned %v, want nil", err)
	}
}
