package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Env         string
	Port        string
	StoreDriver string // json / bolt / postgres / memory
	DataFile    string
	BoltPath    string
	DatabaseURL string
	IDStrategy  string // max / length

	AppSecret   string // 为空时写操作不校验 Token
	TokenExpiry time.Duration

	RateLimitRPS   float64 // <= 0 表示关闭限流
	RateLimitBurst int

	PDFCacheSize    int
	PDFCacheTTL     time.Duration
	CleanupInterval time.Duration
}

// Load 加载配置
func Load() *Config {
	// .env 可选，找不到时使用系统环境变量
	_ = godotenv.Load()

	expiryHours := getEnvInt("TOKEN_EXPIRY_HOURS", 72)
	cacheTTL := getEnvInt("PDF_CACHE_TTL_MINUTES", 60)
	cleanup := getEnvInt("CLEANUP_INTERVAL_MINUTES", 10)

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "movies")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	return &Config{
		Env:         getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "3200"),
		StoreDriver: getEnv("STORE_DRIVER", "json"),
		DataFile:    getEnv("DATA_FILE", "movies.json"),
		BoltPath:    getEnv("BOLT_PATH", "movies.db"),
		DatabaseURL: getEnv("DATABASE_URL", dbURL),
		IDStrategy:  getEnv("ID_STRATEGY", "max"),

		AppSecret:   getEnv("APP_SECRET", ""),
		TokenExpiry: time.Duration(expiryHours) * time.Hour,

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),

		PDFCacheSize:    getEnvInt("PDF_CACHE_SIZE", 256),
		PDFCacheTTL:     time.Duration(cacheTTL) * time.Minute,
		CleanupInterval: time.Duration(cleanup) * time.Minute,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}
