package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	LogLevel  string
	LogFormat string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	// StateDir holds per-source checkpoint files.
	StateDir string

	Cosmos CosmosConfig
	Asset  AssetConfig
	Ingest IngestConfig
}

type CosmosConfig struct {
	BaseURL   string
	Token     string
	UserAgent string
	Referer   string
}

type AssetConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string
}

type IngestConfig struct {
	BatchSize   int
	MaxLines    int64
	MaxProducts int
	MaxPages    int
	OFFFilePath string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "promosync"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "promosync"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 2),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 10),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 1800),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 300),

		StateDir: getenv("STATE_DIR", ".state"),

		Cosmos: CosmosConfig{
			BaseURL:   getenv("COSMOS_BASE_URL", "https://api.cosmos.bluesoft.com.br"),
			Token:     strings.TrimSpace(getenv("COSMOS_TOKEN", "")),
			UserAgent: getenv("COSMOS_USER_AGENT", "promosync/1.0 (+https://promo.local)"),
			Referer:   getenv("COSMOS_REFERER", "https://cosmos.bluesoft.com.br/"),
		},
		Asset: AssetConfig{
			Endpoint:      getenv("ASSET_ENDPOINT", "localhost:9000"),
			AccessKey:     strings.TrimSpace(getenv("ASSET_ACCESS_KEY", "")),
			SecretKey:     strings.TrimSpace(getenv("ASSET_SECRET_KEY", "")),
			Bucket:        getenv("ASSET_BUCKET", "promo-assets"),
			Region:        getenv("ASSET_REGION", ""),
			UseSSL:        getenvBool("ASSET_USE_SSL", false),
			PublicBaseURL: getenv("ASSET_PUBLIC_BASE_URL", "http://localhost:9000"),
		},
		Ingest: IngestConfig{
			BatchSize:   getenvInt("INGEST_BATCH_SIZE", 100),
			MaxLines:    getenvInt64("INGEST_MAX_LINES", 1_000_000),
			MaxProducts: getenvInt("INGEST_MAX_PRODUCTS", 50_000),
			MaxPages:    getenvInt("INGEST_MAX_PAGES", 0),
			OFFFilePath: getenv("OFF_FILE_PATH", "openfoodfacts-products.jsonl"),
		},
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
