package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string
	Port        string

	// Corpus snapshot store
	CacheDir string

	// Validation engine
	DebounceDelay    time.Duration
	ScannerQueueSize int

	// Database performance settings
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime int // minutes
	DBConnMaxIdleTime int // minutes
	DBReadTimeout     time.Duration

	// Logging settings
	LogLevel  string
	LogFormat string // "json" or "text"
	LogOutput string // "stdout", "stderr", or file path

	// Naming rules overrides (YAML); empty = compiled defaults
	RulesPath string
}

func Load() *Config {
	dbMaxOpenConns, _ := strconv.Atoi(getEnv("DB_MAX_OPEN_CONNS", "25"))
	dbMaxIdleConns, _ := strconv.Atoi(getEnv("DB_MAX_IDLE_CONNS", "10"))
	dbConnMaxLifetime, _ := strconv.Atoi(getEnv("DB_CONN_MAX_LIFETIME_MINUTES", "10"))
	dbConnMaxIdleTime, _ := strconv.Atoi(getEnv("DB_CONN_MAX_IDLE_TIME_MINUTES", "5"))
	dbReadTO, _ := time.ParseDuration(getEnv("DB_READ_TIMEOUT", "8s"))

	debounceMs, _ := strconv.Atoi(getEnv("DEBOUNCE_DELAY_MS", "400"))
	if debounceMs <= 0 {
		debounceMs = 400
	}
	scannerQueue, _ := strconv.Atoi(getEnv("SCANNER_QUEUE_SIZE", "64"))

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
		CacheDir:    getEnv("CACHE_DIR", "./cache"),

		DebounceDelay:    time.Duration(debounceMs) * time.Millisecond,
		ScannerQueueSize: scannerQueue,

		DBMaxOpenConns:    dbMaxOpenConns,
		DBMaxIdleConns:    dbMaxIdleConns,
		DBConnMaxLifetime: dbConnMaxLifetime,
		DBConnMaxIdleTime: dbConnMaxIdleTime,
		DBReadTimeout:     dbReadTO,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogOutput: getEnv("LOG_OUTPUT", "stdout"),

		RulesPath: getEnv("RULES_PATH", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
