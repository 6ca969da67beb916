package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vilamar/hostelpos/internal/billing"
	"github.com/vilamar/hostelpos/internal/config"
	"github.com/vilamar/hostelpos/internal/model"
	"github.com/vilamar/hostelpos/internal/session"
	"github.com/vilamar/hostelpos/internal/utils"
)

// AuthHandler opens and closes operator sessions.  The staff PIN is
// verified by the billing service; on success a session is created holding
// the PIN for later order attribution and a JWT referencing it is issued.
type AuthHandler struct {
	API      *billing.Client
	Sessions *session.Store
	Cfg      config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(api *billing.Client, sessions *session.Store, cfg config.Config) *AuthHandler {
	return &AuthHandler{API: api, Sessions: sessions, Cfg: cfg}
}

// Login handles POST /v1/auth/login.  The body carries the staff PIN and
// the operator mode this terminal runs in.  Cleaners may only open
// governance (RECEPCAO) sessions; kiosk sessions are opened by the staff
// member provisioning the kiosk.
func (h *AuthHandler) Login(c echo.Context) error {
	var body struct {
		Pin  string             `json:"pin"`
		Mode model.OperatorMode `json:"mode"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Pin == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pin is required"})
	}
	if !body.Mode.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid operator mode"})
	}
	staff, err := h.API.AuthenticateStaff(c.Request().Context(), body.Pin)
	if err != nil {
		return respondError(c, err)
	}
	if !staff.Active {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "staff account disabled"})
	}
	if staff.Role == model.RoleCleaner && body.Mode != model.ModeRecepcao {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cleaners may only open governance sessions"})
	}

	sess := h.Sessions.Create(staff, body.Pin, body.Mode)
	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, sess.ID, string(staff.Role), string(body.Mode), h.Cfg.SessionTTLMin)
	if err != nil {
		h.Sessions.Delete(sess.ID)
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":      tok.Token,
		"expires_at": tok.Exp,
		"staff":      staff,
		"mode":       body.Mode,
	})
}

// Logout handles POST /v1/auth/logout and discards the session, cart
// included.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := currentSession(c, h.Sessions)
	if err != nil {
		return respondError(c, err)
	}
	h.Sessions.Delete(sess.ID)
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/me and returns the operator behind the session.
func (h *AuthHandler) Me(c echo.Context) error {
	sess, err := currentSession(c, h.Sessions)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"staff":      sess.Staff,
		"mode":       sess.Mode,
		"cart_units": sess.Cart.Units(),
	})
}

// KioskExit handles POST /v1/kiosk/exit.  Leaving kiosk mode requires the
// locally provisioned exit PIN, verified against a bcrypt hash so it works
// even when the billing service is down.
func (h *AuthHandler) KioskExit(c echo.Context) error {
	var body struct {
		Pin string `json:"pin"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if h.Cfg.KioskExitPinHash == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "kiosk exit not provisioned"})
	}
	if !utils.VerifyPin(h.Cfg.KioskExitPinHash, body.Pin) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "wrong exit pin", "remediation": "reprompt_pin"})
	}
	if sess, err := currentSession(c, h.Sessions); err == nil {
		h.Sessions.Delete(sess.ID)
	}
	return c.NoContent(http.StatusNoContent)
}
