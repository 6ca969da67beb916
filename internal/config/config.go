package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses the billing call timeout
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, durations for
// timeouts, ints for TTLs and costs.
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Port             string        // HTTP port to listen on
	BillingBaseURL   string        // base URL of the remote billing service
	BillingTimeout   time.Duration // per-call timeout for billing requests
	JWTSecret        string        // secret used to sign session JWTs
	SessionTTLMin    int           // operator session time-to-live in minutes
	CatalogCacheTTL  time.Duration // how long a visible product listing may be reused
	KioskExitPinHash string        // bcrypt hash of the kiosk exit PIN (empty disables local exit)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		BillingBaseURL:   must("BILLING_BASE_URL"),
		BillingTimeout:   dur(getenv("BILLING_TIMEOUT", "10s")),
		JWTSecret:        must("JWT_SECRET"),
		SessionTTLMin:    mustInt("SESSION_TTL_MIN"),
		CatalogCacheTTL:  dur(getenv("CATALOG_CACHE_TTL", "15s")),
		KioskExitPinHash: os.Getenv("KIOSK_EXIT_PIN_HASH"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func dur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
