package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env             string // development or production
	Port            string
	DatabaseURL     string // Empty means links are kept in memory
	RedisURL        string // Empty disables the lookup cache
	BaseURL         string // Public base URL used to build short URLs; request host is used when empty
	CodeLength      int    // Length of generated codes
	CacheTTL        time.Duration
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBQueryTimeout  time.Duration
	EnableMetrics   bool
	ShutdownTimeout time.Duration
	EnvFileLoaded   bool // Whether a .env file was found
}

func Load() *Config {
	// .env is optional, the process environment always wins
	envFileLoaded := godotenv.Load() == nil

	return &Config{
		Env:             getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", ""),
		BaseURL:         getEnv("BASE_URL", ""),
		CodeLength:      getEnvInt("CODE_LENGTH", 7),
		CacheTTL:        time.Duration(getEnvInt("CACHE_TTL_SECONDS", 3600)) * time.Second,
		DBMaxOpenConns:  getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:  getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DBQueryTimeout:  time.Duration(getEnvInt("DB_QUERY_TIMEOUT_SECONDS", 5)) * time.Second,
		EnableMetrics:   getEnvBool("ENABLE_METRICS", true),
		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		EnvFileLoaded:   envFileLoaded,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
