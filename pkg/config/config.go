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
	Cache    CacheConfig
	GPA      GPAConfig
	Import   ImportConfig
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
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig controls the Redis read cache for GPA snapshots and grading scales.
type CacheConfig struct {
	Enabled  bool
	GPATTL   time.Duration
	ScaleTTL time.Duration
}

// GPAConfig tunes GPA recomputation after approvals and the periodic reconcile job.
type GPAConfig struct {
	RefreshConcurrency int
	RetryWorkers       int
	RetryAttempts      int
	RetryDelay         time.Duration
	ReconcileSchedule  string
	ReconcileTimeout   time.Duration
}

// ImportConfig bounds CSV score-sheet uploads.
type ImportConfig struct {
	MaxRows     int
	MaxFileSize int64
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

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
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
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: strings.TrimSpace(v.GetString("JWT_ISSUER")),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:  v.GetBool("CACHE_ENABLED"),
		GPATTL:   parseDuration(v.GetString("GPA_CACHE_TTL"), 15*time.Minute),
		ScaleTTL: parseDuration(v.GetString("GRADING_SCALE_CACHE_TTL"), time.Hour),
	}

	cfg.GPA = GPAConfig{
		RefreshConcurrency: v.GetInt("GPA_REFRESH_CONCURRENCY"),
		RetryWorkers:       v.GetInt("GPA_RETRY_WORKERS"),
		RetryAttempts:      v.GetInt("GPA_RETRY_ATTEMPTS"),
		RetryDelay:         parseDuration(v.GetString("GPA_RETRY_DELAY"), 5*time.Second),
		ReconcileSchedule:  strings.TrimSpace(v.GetString("GPA_RECONCILE_SCHEDULE")),
		ReconcileTimeout:   parseDuration(v.GetString("GPA_RECONCILE_TIMEOUT"), 10*time.Minute),
	}

	maxFileSize := v.GetInt64("IMPORT_MAX_FILE_SIZE")
	if maxFileSize <= 0 {
		maxFileSize = 2 * 1024 * 1024
	}
	cfg.Import = ImportConfig{
		MaxRows:     v.GetInt("IMPORT_MAX_ROWS"),
		MaxFileSize: maxFileSize,
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "result_processing")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("GPA_CACHE_TTL", "15m")
	v.SetDefault("GRADING_SCALE_CACHE_TTL", "1h")

	v.SetDefault("GPA_REFRESH_CONCURRENCY", 4)
	v.SetDefault("GPA_RETRY_WORKERS", 1)
	v.SetDefault("GPA_RETRY_ATTEMPTS", 3)
	v.SetDefault("GPA_RETRY_DELAY", "5s")
	v.SetDefault("GPA_RECONCILE_SCHEDULE", "")
	v.SetDefault("GPA_RECONCILE_TIMEOUT", "10m")

	v.SetDefault("IMPORT_MAX_ROWS", 1000)
	v.SetDefault("IMPORT_MAX_FILE_SIZE", 2*1024*1024)
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
