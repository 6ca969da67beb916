package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vilamar/hostelpos/internal/utils"
)

func runJWT(t *testing.T, secret, header string) (int, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	h := JWTAuth(secret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatal(err)
	}
	return rec.Code, c
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewSessionToken("secret", "sess-1", "MANAGER", "RECEPCAO", 5)
	if err != nil {
		t.Fatal(err)
	}
	code, c := runJWT(t, "secret", "Bearer "+tok.Token)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if c.Get("session_id") != "sess-1" || c.Get("role") != "MANAGER" || c.Get("mode") != "RECEPCAO" {
		t.Errorf("claims in context: session=%v role=%v mode=%v",
			c.Get("session_id"), c.Get("role"), c.Get("mode"))
	}
}

func TestJWTAuthMissingHeader(t *testing.T) {
	if code, _ := runJWT(t, "secret", ""); code != http.StatusUnauthorized {
		t.Errorf("status = %d", code)
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewSessionToken("other", "sess-1", "WAITER", "GARCOM", 5)
	if err != nil {
		t.Fatal(err)
	}
	if code, _ := runJWT(t, "secret", "Bearer "+tok.Token); code != http.StatusUnauthorized {
		t.Errorf("status = %d", code)
	}
}

func runGate(t *testing.T, mw echo.MiddlewareFunc, key, val string) int {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if val != "" {
		c.Set(key, val)
	}
	h := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := h(c); err != nil {
		t.Fatal(err)
	}
	return rec.Code
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole("MANAGER", "ADMIN")
	if code := runGate(t, mw, "role", "MANAGER"); code != http.StatusOK {
		t.Errorf("manager: status = %d", code)
	}
	if code := runGate(t, mw, "role", "WAITER"); code != http.StatusForbidden {
		t.Errorf("waiter: status = %d", code)
	}
	if code := runGate(t, mw, "role", ""); code != http.StatusForbidden {
		t.Errorf("no role: status = %d", code)
	}
}

func TestRequireMode(t *testing.T) {
	mw := RequireMode("GARCOM", "KIOSK")
	if code := runGate(t, mw, "mode", "KIOSK"); code != http.StatusOK {
		t.Errorf("kiosk: status = %d", code)
	}
	if code := runGate(t, mw, "mode", "RECEPCAO"); code != http.StatusForbidden {
		t.Errorf("recepcao: status = %d", code)
	}
}

func TestCurrentSessionIDFallsBackToAnon(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if got := currentSessionID(c); got != "anon" {
		t.Errorf("id = %q, want anon", got)
	}
	c.Set("session_id", "sess-9")
	if got := currentSessionID(c); got != "sess-9" {
		t.Errorf("id = %q", got)
	}
}
