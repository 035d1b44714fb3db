package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig carries everything the composition root needs; there are no
// ambient globals elsewhere in the application.
type AppConfig struct {
	// Port the fiber app listens on.
	Port string

	// DBPath locates the SQLite file holding search history, city counts,
	// and the transport cache.
	DBPath string

	// HTTPTimeout bounds each outbound geocoding/forecast call.
	HTTPTimeout time.Duration

	// GeocoderUserAgent identifies this application to Nominatim.
	GeocoderUserAgent string

	// GoogleAPIKey switches geocoding to the Google backend when set.
	GoogleAPIKey string

	// CacheTTL is how long cached forecast responses stay fresh.
	CacheTTL time.Duration

	// CachePruneInterval controls the maintenance job cadence.
	CachePruneInterval time.Duration
}

// Load reads configuration from the environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:              getenvDefault("PORT", "5000"),
		DBPath:            getenvDefault("DB_PATH", "table_weather_history.db"),
		GeocoderUserAgent: getenvDefault("GEOCODER_USER_AGENT", "city-weather"),
		GoogleAPIKey:      os.Getenv("GOOGLE_API_KEY"),
	}

	timeout, err := getenvDuration("HTTP_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	ttl, err := getenvDuration("CACHE_TTL", "1h")
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = ttl

	prune, err := getenvDuration("CACHE_PRUNE_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	cfg.CachePruneInterval = prune

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
