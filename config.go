package rentroam

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds connection and routing configuration.
type Config struct {
	// BaseURL is the API base, e.g. "https://api.rentroam.example". When
	// empty, request paths are resolved relative to the serving origin
	// under the conventional /api prefix.
	BaseURL string

	// SignInRoute is where unauthenticated visitors are redirected.
	// Default: "/login".
	SignInRoute string

	// HomeRoute is where wrong-role visitors are redirected. Default: "/".
	HomeRoute string
}

// Default client-side routes.
const (
	DefaultSignInRoute = "/login"
	DefaultHomeRoute   = "/"
)

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.SignInRoute == "" {
		c.SignInRoute = DefaultSignInRoute
	}
	if c.HomeRoute == "" {
		c.HomeRoute = DefaultHomeRoute
	}
}

// ConfigFromEnv builds a Config from the environment, loading a .env file
// first if one is present. RENTROAM_API_URL selects the API base; absent
// means the /api-relative convention.
func ConfigFromEnv() Config {
	_ = godotenv.Load()

	cfg := Config{
		BaseURL:     os.Getenv("RENTROAM_API_URL"),
		SignInRoute: getEnv("RENTROAM_SIGNIN_ROUTE", DefaultSignInRoute),
		HomeRoute:   getEnv("RENTROAM_HOME_ROUTE", DefaultHomeRoute),
	}
	cfg.normalize()
	return cfg
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
