package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/munckapp/munck-backend/internal/websocket"
)

// stubValidator accepts a single known token
type stubValidator struct {
	token   string
	auth0ID string
}

func (v *stubValidator) ValidateToken(token string) (string, error) {
	if token == v.token {
		return v.auth0ID, nil
	}
	return "", errors.New("invalid token")
}

func TestHandleWS_MissingToken(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	handler := NewWebSocketHandler(hub, &stubValidator{token: "good", auth0ID: "auth0|ws"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.HandleWS(c)
	if err == nil {
		t.Fatal("Expected an error for missing token")
	}

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected *echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", httpErr.Code)
	}
}

func TestHandleWS_InvalidToken(t *testing.T) {
	e := echo.New()
	hub := websocket.NewHub()
	handler := NewWebSocketHandler(hub, &stubValidator{token: "good", auth0ID: "auth0|ws"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/ws?token=bad", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.HandleWS(c)
	if err == nil {
		t.Fatal("Expected an error for invalid token")
	}

	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("Expected *echo.HTTPError, got %T", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", httpErr.Code)
	}
}

func TestCheckOrigin(t *testing.T) {
	hub := websocket.NewHub()
	handler := NewWebSocketHandler(hub, &stubValidator{}, []string{"https://app.munck.app"})

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin header", "", true},
		{"allowed origin", "https://app.munck.app", true},
		{"unknown origin", "https://evil.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := handler.checkOrigin(req); got != tt.want {
				t.Errorf("checkOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}
