package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultPortraitsSubDir  = "portraits"
	DefaultThumbnailsSubDir = "portrait_thumbnails"
)

const (
	defaultThumbnailMaxSize       = 300
	defaultNotificationQueueSize  = 256
	defaultNumNotificationWorkers = 2
	defaultJWTExpirationHours     = 24
	defaultBrowsePageSize         = 50
	defaultBrowseMaxPageSize      = 200
)

type Config struct {
	// database path
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // primary root for uploaded portraits and thumbnails
	PortraitsPath    string // full-calculated path for original portraits
	ThumbnailsPath   string // full-calculated path for portrait thumbnails

	// thumbnail generation settings
	ThumbnailMaxSize int

	// auth settings
	JWTSecret          string
	JWTExpirationHours int

	// notification dispatcher settings
	NotificationQueueSize  int
	NumNotificationWorkers int

	// public browse settings
	BrowsePageSize    int
	BrowseMaxPageSize int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "chronicle.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	portraitSubDir := getEnvOrDefault("PORTRAITS_SUBDIR", DefaultPortraitsSubDir)
	absPortraitsPath := filepath.Join(absMediaStorage, portraitSubDir)

	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	absThumbnailsPath := filepath.Join(absMediaStorage, thumbSubDir)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	cfg := Config{
		DatabasePath:           dbPath,
		MediaStoragePath:       absMediaStorage,
		PortraitsPath:          absPortraitsPath,
		ThumbnailsPath:         absThumbnailsPath,
		ThumbnailMaxSize:       getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize),
		JWTSecret:              jwtSecret,
		JWTExpirationHours:     getEnvIntOrDefault("JWT_EXPIRATION_HOURS", defaultJWTExpirationHours),
		NotificationQueueSize:  getEnvIntOrDefault("NOTIFICATION_QUEUE_SIZE", defaultNotificationQueueSize),
		NumNotificationWorkers: getEnvIntOrDefault("NUM_NOTIFICATION_WORKERS", defaultNumNotificationWorkers),
		BrowsePageSize:         getEnvIntOrDefault("BROWSE_PAGE_SIZE", defaultBrowsePageSize),
		BrowseMaxPageSize:      getEnvIntOrDefault("BROWSE_MAX_PAGE_SIZE", defaultBrowseMaxPageSize),
	}

	return cfg, nil
}
