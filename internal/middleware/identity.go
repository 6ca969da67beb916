package middleware

// identity.go defines helper functions shared across middleware files.  It
// extracts the session identifier that JWTAuth stored in the Echo context;
// "anon" is returned for requests outside an operator session (e.g. the
// login endpoint itself, which is rate limited by IP).

import "github.com/labstack/echo/v4"

// currentSessionID pulls the session ID placed in context by JWTAuth.
func currentSessionID(c echo.Context) string {
	if v := c.Get("session_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
