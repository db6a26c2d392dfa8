package config

import (
	"fmt"
	"net/url"
	"time"
)

// Settings holds all dashboard configuration in a structured way.
type Settings struct {
	App      AppConfig
	Backend  BackendConfig
	Sync     SyncConfig
	Composer ComposerConfig
	Paths    PathsConfig
}

type AppConfig struct {
	Version            string
	Port               string
	Debug              bool
	BasePath           string
	CorsAllowedOrigins []string
}

type BackendConfig struct {
	// BaseURL of the messaging backend REST API, without trailing slash.
	BaseURL string
	Timeout time.Duration
}

type SyncConfig struct {
	// StatusInterval paces connection-status polling.
	StatusInterval time.Duration
	// ScheduledInterval paces scheduled-message-list polling.
	ScheduledInterval time.Duration
}

type ComposerConfig struct {
	// MaxMessageLength is the composer content cap. The quick-send limit
	// of the stock dashboard (1000) applies to the whole composer
	// surface; one limit, used consistently.
	MaxMessageLength int
	MaxImageSize     int64
	MaxImages        int
}

type PathsConfig struct {
	Storages    string
	FavoritesDB string
}

// Global provides access to the loaded settings across the process.
var Global *Settings

// Load builds Settings from environment variables with defaults.
func Load() (*Settings, error) {
	s := &Settings{
		App: AppConfig{
			Version:            "v1.0.0",
			Port:               getEnv("APP_PORT", "3000"),
			Debug:              getEnvBool("APP_DEBUG", false),
			BasePath:           getEnv("APP_BASE_PATH", ""),
			CorsAllowedOrigins: getEnvList("APP_CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:3001"),
			Timeout: getEnvDuration("BACKEND_TIMEOUT", 15*time.Second),
		},
		Sync: SyncConfig{
			StatusInterval:    getEnvDuration("SYNC_STATUS_INTERVAL", 10*time.Second),
			ScheduledInterval: getEnvDuration("SYNC_SCHEDULED_INTERVAL", 30*time.Second),
		},
		Composer: ComposerConfig{
			MaxMessageLength: getEnvInt("COMPOSER_MAX_MESSAGE_LENGTH", 1000),
			MaxImageSize:     getEnvInt64("COMPOSER_MAX_IMAGE_SIZE", 10*1024*1024),
			MaxImages:        getEnvInt("COMPOSER_MAX_IMAGES", 5),
		},
		Paths: PathsConfig{
			Storages:    getEnv("APP_STORAGES_PATH", "storages"),
			FavoritesDB: getEnv("FAVORITES_DB_PATH", "storages/favorites.db"),
		},
	}

	if _, err := url.Parse(s.Backend.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid BACKEND_BASE_URL: %w", err)
	}
	if s.Composer.MaxMessageLength <= 0 {
		return nil, fmt.Errorf("COMPOSER_MAX_MESSAGE_LENGTH must be positive")
	}

	Global = s
	return s, nil
}
