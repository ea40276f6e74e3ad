package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Events   EventsConfig
	Reports  ReportsConfig
	Assets   AssetsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EventsConfig tunes the grouped event listing.
type EventsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ReportsConfig configures asynchronous accomplishment report generation.
type ReportsConfig struct {
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	CleanupInterval   time.Duration
	ResultTTL         time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

// AssetsConfig bounds remote logo/photo fetches during rendering.
type AssetsConfig struct {
	FetchTimeout time.Duration
	MaxBytes     int64
	Prefetchers  int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Events = EventsConfig{
		CacheEnabled: v.GetBool("EVENTS_CACHE_ENABLED"),
		CacheTTL:     parseDuration(v.GetString("EVENTS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Reports = ReportsConfig{
		StorageDir:        v.GetString("REPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("REPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("REPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval:   parseDuration(v.GetString("REPORTS_CLEANUP_INTERVAL"), time.Hour),
		ResultTTL:         parseDuration(v.GetString("REPORTS_RESULT_TTL"), 24*time.Hour),
		WorkerConcurrency: v.GetInt("REPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("REPORTS_WORKER_RETRIES"),
	}

	maxAssetBytes := v.GetInt64("ASSETS_MAX_BYTES")
	if maxAssetBytes <= 0 {
		maxAssetBytes = 8 * 1024 * 1024
	}
	cfg.Assets = AssetsConfig{
		FetchTimeout: parseDuration(v.GetString("ASSETS_FETCH_TIMEOUT"), 10*time.Second),
		MaxBytes:     maxAssetBytes,
		Prefetchers:  v.GetInt("ASSETS_PREFETCHERS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "centro_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("EVENTS_CACHE_ENABLED", false)
	v.SetDefault("EVENTS_CACHE_TTL", "5m")

	v.SetDefault("REPORTS_STORAGE_DIR", "./reports")
	v.SetDefault("REPORTS_SIGNED_URL_SECRET", "dev_reports_secret")
	v.SetDefault("REPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("REPORTS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("REPORTS_RESULT_TTL", "24h")
	v.SetDefault("REPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("REPORTS_WORKER_RETRIES", 3)

	v.SetDefault("ASSETS_FETCH_TIMEOUT", "10s")
	v.SetDefault("ASSETS_MAX_BYTES", 8*1024*1024)
	v.SetDefault("ASSETS_PREFETCHERS", 4)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
