package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDev        = "dev"
	EnvTest       = "test"
	EnvProduction = "production"

	// only ever used when APP_ENV is dev or test
	devJWTSecret = "dev-secret-change-me"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Env   string
	Port  int
	DBURL string

	DBDriver       string
	SQLitePath     string
	MigrateOnStart bool

	JWTSecret           string
	JWTAccessTTLMinutes int
	BcryptCost          int

	AdminEmail    string
	AdminPassword string
	AdminUsername string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AuthRateLimit         int
	AuthRateWindowSeconds int
	UserWriteRateLimit    int

	CORSAllowedOrigins  []string
	MaxBodyBytes        int64
	UserCacheTTLSeconds int

	OTELEndpoint    string
	OTELSampleRatio float64
}

func Load() Config {
	// a missing .env is fine, real deployments use the environment
	_ = godotenv.Load()

	return Config{
		Env:   getEnv("APP_ENV", EnvProduction),
		Port:  getEnvInt("PORT", 8080),
		DBURL: getEnv("DATABASE_URL", buildDBURL()),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		SQLitePath:     getEnv("SQLITE_PATH", "usershub.db"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),

		JWTSecret:           getEnv("JWT_SECRET", ""),
		JWTAccessTTLMinutes: getEnvInt("JWT_ACCESS_TTL_MINUTES", 60*24),
		BcryptCost:          getEnvInt("BCRYPT_COST", 12),

		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AuthRateLimit:         getEnvInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindowSeconds: getEnvInt("AUTH_RATE_WINDOW_SECONDS", 60),
		UserWriteRateLimit:    getEnvInt("USER_WRITE_RATE_LIMIT", 60),

		CORSAllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS"),
		MaxBodyBytes:        int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		UserCacheTTLSeconds: getEnvInt("USER_CACHE_TTL_SECONDS", 5),

		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELSampleRatio: getEnvFloat("OTEL_SAMPLE_RATIO", 1),
	}
}

var (
	ErrMissingJWTSecret = errors.New("JWT_SECRET must be set outside dev/test")
	ErrUnknownDBDriver  = errors.New("DB_DRIVER must be one of postgres, sqlite, memory")
)

// Validate fills dev defaults and rejects settings that are unsafe to run with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return ErrUnknownDBDriver
	}

	if c.JWTSecret == "" {
		if c.Env != EnvDev && c.Env != EnvTest {
			return ErrMissingJWTSecret
		}
		slog.Warn("JWT_SECRET is empty, signing tokens with the public dev secret", "env", c.Env)
		c.JWTSecret = devJWTSecret
	}

	if c.JWTAccessTTLMinutes <= 0 {
		c.JWTAccessTTLMinutes = 60
	}

	return nil
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLMinutes) * time.Minute
}

func (c Config) AuthRateWindow() time.Duration {
	return time.Duration(c.AuthRateWindowSeconds) * time.Second
}

func (c Config) UserCacheTTL() time.Duration {
	return time.Duration(c.UserCacheTTLSeconds) * time.Second
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "usershub")
	pass := getEnv("DB_PASSWORD", "usershub")
	name := getEnv("DB_NAME", "usershub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fallback
		}
		return f
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
