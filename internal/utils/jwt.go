package utils // package utils provides helpers for session tokens and PIN hashing

import (
	"time" // time utilities for token expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken represents a signed JWT bound to one operator session along
// with its expiry.  The token travels in the Authorization header of every
// terminal request; the session ID inside it keys the in-memory session
// store that holds the operator's cart and staff credential.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for an operator session.
// The claims carry the session ID as subject, the staff role for the role
// middleware, and the operator mode so kiosk-only gating needs no store
// lookup.
func NewSessionToken(secret, sessionID, role, mode string, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  sessionID,
		"role": role,
		"mode": mode,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}
