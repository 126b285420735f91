package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AI       AIConfig
	Scoring  ScoringConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	Debug       bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AIConfig struct {
	GeminiAPIKey   string
	GeminiModel    string
	RequestTimeout time.Duration
	// EnhancementRPS throttles outbound analysis calls during batch
	// ranking. Zero disables the limiter.
	EnhancementRPS int
}

type ScoringConfig struct {
	JobResultTTL       time.Duration
	CriteriaResultTTL  time.Duration
	BatchWorkers       int
	CacheMaxEntries    int
	CacheSweepInterval time.Duration
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	optInt := func(key string, def int) int {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return def
		}
		return n
	}
	optBool := func(key string) bool {
		v := strings.TrimSpace(os.Getenv(key))
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	optDuration := func(key string, def time.Duration) time.Duration {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return def
		}
		return d
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		Debug:       optBool("APP_DEBUG"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", 0),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 0),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", 0),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		DB:       optInt("REDIS_DB", 0),
	}

	cfg.AI = AIConfig{
		GeminiAPIKey:   opt("GEMINI_API_KEY"),
		GeminiModel:    opt("GEMINI_MODEL"),
		RequestTimeout: optDuration("AI_REQUEST_TIMEOUT", 8*time.Second),
		EnhancementRPS: optInt("AI_ENHANCEMENT_RPS", 0),
	}

	cfg.Scoring = ScoringConfig{
		JobResultTTL:       optDuration("SCORE_JOB_TTL", time.Hour),
		CriteriaResultTTL:  optDuration("SCORE_CRITERIA_TTL", 30*time.Minute),
		BatchWorkers:       optInt("SCORE_BATCH_WORKERS", 4),
		CacheMaxEntries:    optInt("SCORE_CACHE_MAX_ENTRIES", 0),
		CacheSweepInterval: optDuration("SCORE_CACHE_SWEEP_INTERVAL", 0),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}
