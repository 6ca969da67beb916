package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireRole returns a middleware function that enforces that the
// authenticated operator has one of the specified staff roles.  The roles
// accepted correspond to the values stored in the JWT's "role" claim
// (WAITER, MANAGER, ADMIN, CLEANER).  If the operator's role is not in the
// allowed set, the request is aborted with a 403 Forbidden response.  It
// assumes JWTAuth has extracted the role into the context under "role".
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("role")
			role, ok := v.(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireMode restricts a route to sessions opened in one of the given
// operator modes, e.g. keeping order submission off RECEPCAO terminals.
func RequireMode(modes ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(modes))
	for _, m := range modes {
		allowed[m] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("mode")
			mode, ok := v.(string)
			if !ok || !allowed[mode] {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "not available in this mode"})
			}
			return next(c)
		}
	}
}
