package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageDynamo = "dynamo"
	StorageSQLite = "sqlite"
)

// MaxExpoBatchSize is the gateway's documented per-request message limit.
const MaxExpoBatchSize = 100

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	StorageDriver string
	SQLitePath    string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3ReportBucket string // empty disables dispatch report archiving

	Expo Expo

	AllowedOrigins    []string // CORS allowed origins
	RegisterRateLimit float64  // requests/second per IP on register-token
	RegisterRateBurst int
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Devices       string
	Notifications string
}

// Expo holds the push gateway client settings.
type Expo struct {
	PushURL     string
	AccessToken string
	Timeout     time.Duration
	MaxRetries  int
	BatchSize   int
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDynamo)),
		SQLitePath:    getEnv("SQLITE_PATH", "./notifications.db"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Devices:       getEnv("DYNAMO_TABLE_DEVICES", "devices"),
			Notifications: getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
		},
		S3ReportBucket: getEnv("S3_REPORT_BUCKET", ""),

		Expo: Expo{
			PushURL:     getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
			AccessToken: getEnv("EXPO_ACCESS_TOKEN", ""),
			Timeout:     getEnvDuration("EXPO_TIMEOUT", 15*time.Second),
			MaxRetries:  getEnvInt("EXPO_MAX_RETRIES", 1),
			BatchSize:   clampBatchSize(getEnvInt("EXPO_BATCH_SIZE", MaxExpoBatchSize)),
		},

		AllowedOrigins:    strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		RegisterRateLimit: getEnvFloat("REGISTER_RATE_LIMIT", 5),
		RegisterRateBurst: getEnvInt("REGISTER_RATE_BURST", 10),
	}
}

func clampBatchSize(n int) int {
	if n < 1 || n > MaxExpoBatchSize {
		return MaxExpoBatchSize
	}
	return n
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("15s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
