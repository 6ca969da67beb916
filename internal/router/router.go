package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/vilamar/hostelpos/internal/config"
	"github.com/vilamar/hostelpos/internal/handler"
	"github.com/vilamar/hostelpos/internal/middleware"
)

// Handlers bundles everything the route table needs.
type Handlers struct {
	Auth     *handler.AuthHandler
	Guest    *handler.GuestHandler
	Product  *handler.ProductHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Checkout *handler.CheckoutHandler
	Room     *handler.RoomHandler
}

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// Register wires the full route table.  Login and the two manager PIN
// surfaces (order cancel, kiosk exit) carry the Redis token-bucket limiter;
// everything else sits behind the session JWT.  Role and mode middleware
// keep service flows off governance terminals and vice versa.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	pinLimit := middleware.NewTokenBucket(rlCfg, rdb)

	e.POST("/v1/auth/login", h.Auth.Login, pinLimit)
	e.POST("/v1/kiosk/exit", h.Auth.KioskExit, pinLimit)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))

	auth.POST("/auth/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me)

	// Guest resolution and the menu are available in every mode.
	auth.GET("/guests/wristband/:uid", h.Guest.ByWristband)
	auth.GET("/guests/room/:number", h.Guest.ByRoom)
	auth.GET("/guests/room/:number/all", h.Guest.Occupants)
	auth.GET("/guests/search", h.Guest.Search)
	auth.GET("/guests/:id/orders", h.Guest.Orders)
	auth.GET("/products", h.Product.List)

	// Intake: cart mutation and submission.  Not offered on governance
	// terminals.
	intake := auth.Group("")
	intake.Use(middleware.RequireMode("GARCOM", "KIOSK"))
	intake.GET("/cart", h.Cart.Get)
	intake.POST("/cart/items", h.Cart.Add)
	intake.PATCH("/cart/items/:productId", h.Cart.Update)
	intake.DELETE("/cart/items/:productId", h.Cart.Remove)
	intake.DELETE("/cart", h.Cart.Clear)
	intake.POST("/orders", h.Order.Submit, pinLimit)

	auth.GET("/orders", h.Order.List)
	// Cancellation takes a manager PIN whatever mode issued the order, so
	// it shares the PIN limiter.
	auth.DELETE("/orders/:id", h.Order.Cancel, pinLimit)

	// Governance: check-in, checkout and the room grid live on RECEPCAO
	// terminals only.
	gov := auth.Group("")
	gov.Use(middleware.RequireMode("RECEPCAO"))
	gov.POST("/guests", h.Guest.CheckIn, middleware.RequireRole("WAITER", "MANAGER", "ADMIN"))
	gov.GET("/checkout/wristband/:uid", h.Checkout.PreviewByWristband)
	gov.GET("/checkout/room/:number", h.Checkout.PreviewByRoom)
	gov.GET("/checkout/guest/:id", h.Checkout.PreviewGuest)
	gov.POST("/checkout/:guestId", h.Checkout.Settle, middleware.RequireRole("WAITER", "MANAGER", "ADMIN"))

	gov.GET("/rooms", h.Room.List)
	// Cleaners confirm cleaning; maintenance moves need a manager.  The
	// registry enforces which edges exist, this only gates who may ask.
	gov.PATCH("/rooms/:id/status", h.Room.SetStatus,
		middleware.RequireRole("CLEANER", "MANAGER", "ADMIN"))
}
