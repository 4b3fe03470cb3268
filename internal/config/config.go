package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port    string
	GinMode string
	// Storage
	StorageDriver string // "file" or "postgres"
	DataDir       string
	WatchDataDir  bool
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	// Initial account, used when the content document has no users
	AdminUser     string
	AdminPassword string
	HashPasswords bool
	// Analytics snapshots are stamped in this zone
	AnalyticsTimezone string
	// Login attempts allowed per client IP per minute
	LoginRatePerMinute int
	// Copy device playlistId links into playlist deviceIds at startup
	MigrateLegacyLinks bool
	LogLevel           string
}

func Load() *Config {
	return &Config{
		Port:               getenv("PORT", "8080"),
		GinMode:            getenv("GIN_MODE", "release"),
		StorageDriver:      strings.ToLower(getenv("STORAGE_DRIVER", "file")),
		DataDir:            getenv("DATA_DIR", "data"),
		WatchDataDir:       getbool("WATCH_DATA_DIR", true),
		DBHost:             getenv("DB_HOST", "localhost"),
		DBPort:             getenv("DB_PORT", "5432"),
		DBUser:             getenv("DB_USER", "postgres"),
		DBPassword:         getenv("DB_PASSWORD", "postgres"),
		DBName:             getenv("DB_NAME", "signage"),
		DBSSLMode:          getenv("DB_SSLMODE", "disable"),
		AdminUser:          getenv("ADMIN_USER", "admin"),
		AdminPassword:      getenv("ADMIN_PASSWORD", "password"),
		HashPasswords:      getbool("HASH_PASSWORDS", false),
		AnalyticsTimezone:  getenv("ANALYTICS_TIMEZONE", "America/Sao_Paulo"),
		LoginRatePerMinute: getint("LOGIN_RATE_PER_MINUTE", 10),
		MigrateLegacyLinks: getbool("MIGRATE_LEGACY_LINKS", false),
		LogLevel:           getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getbool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getenv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v, err := strconv.Atoi(getenv(key, "")); err == nil {
		return v
	}
	return fallback
}
