package utils

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	SeedDemoData    bool
	MetricsEnabled  bool
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	MaxConns     int32
	QueryTimeout time.Duration
	AutoMigrate  bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

const (
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

type SessionConfig struct {
	Store           string
	TTL             time.Duration
	CookieName      string
	CookieSecure    bool
	CleanupInterval time.Duration
}

type SecurityConfig struct {
	BcryptCost  int
	AdminAPIKey string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "sports-prediction")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("SEED_DEMO_DATA", false)
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_QUERY_TIMEOUT", "5s")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("SESSION_STORE", SessionStorePostgres)
	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("SESSION_COOKIE_NAME", "session_token")
	viper.SetDefault("SESSION_COOKIE_SECURE", false)
	viper.SetDefault("SESSION_CLEANUP_INTERVAL", "1h")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("BCRYPT_COST", 10)
	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 10)

	// .env is optional; plain environment variables are enough in containers
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            viper.GetString("APP_NAME"),
			Port:            viper.GetString("PORT"),
			Debug:           viper.GetBool("DEBUG"),
			LogPath:         viper.GetString("LOG_PATH"),
			RequestTimeout:  viper.GetDuration("REQUEST_TIMEOUT"),
			ShutdownTimeout: viper.GetDuration("SHUTDOWN_TIMEOUT"),
			AllowedOrigins:  splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			SeedDemoData:    viper.GetBool("SEED_DEMO_DATA"),
			MetricsEnabled:  viper.GetBool("METRICS_ENABLED"),
		},
		Database: DatabaseConfig{
			Host:         viper.GetString("DB_HOST"),
			Port:         viper.GetString("DB_PORT"),
			Name:         viper.GetString("DB_NAME"),
			User:         viper.GetString("DB_USER"),
			Password:     viper.GetString("DB_PASS"),
			MaxConns:     viper.GetInt32("DB_MAX_CONNS"),
			QueryTimeout: viper.GetDuration("DB_QUERY_TIMEOUT"),
			AutoMigrate:  viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Store:           strings.ToLower(viper.GetString("SESSION_STORE")),
			TTL:             viper.GetDuration("SESSION_TTL"),
			CookieName:      viper.GetString("SESSION_COOKIE_NAME"),
			CookieSecure:    viper.GetBool("SESSION_COOKIE_SECURE"),
			CleanupInterval: viper.GetDuration("SESSION_CLEANUP_INTERVAL"),
		},
		Security: SecurityConfig{
			BcryptCost:  viper.GetInt("BCRYPT_COST"),
			AdminAPIKey: viper.GetString("ADMIN_API_KEY"),
		},
		RateLimit: RateLimitConfig{
			RPS:   viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst: viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if config.Session.Store != SessionStorePostgres && config.Session.Store != SessionStoreRedis {
		return nil, errors.New("SESSION_STORE must be postgres or redis")
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
