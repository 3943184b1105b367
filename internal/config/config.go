package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the client.
type Config struct {
	App     AppConfig
	API     APIConfig
	Tenant  TenantConfig
	Storage StorageConfig
	Redis   RedisConfig
	Logger  LoggerConfig
	Stub    StubConfig
}

// AppConfig identifies the running client.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// APIConfig points at the backend.
type APIConfig struct {
	BaseURL               string
	Host                  string
	RequestTimeoutSeconds int
}

// TenantConfig carries the deployment-level tenant override used in
// local/dev environments.
type TenantConfig struct {
	Override string
}

// StorageConfig selects where client state (credential, tenant choice)
// is persisted between runs.
type StorageConfig struct {
	Backend  string // "file" or "redis"
	FilePath string
}

// RedisConfig holds Redis connection values for the redis storage backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// StubConfig parametrizes the local development backend.
type StubConfig struct {
	Addr                  string
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	baseURL := strings.TrimSuffix(getEnv("API_BASE_URL", "http://localhost:8080"), "/")

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "workforce-client"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		API: APIConfig{
			BaseURL:               baseURL,
			Host:                  getEnv("APP_HOST", hostFromURL(baseURL)),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Tenant: TenantConfig{
			Override: os.Getenv("TENANT_OVERRIDE"),
		},
		Storage: StorageConfig{
			Backend:  getEnv("STORAGE_BACKEND", "file"),
			FilePath: getEnv("STORAGE_FILE_PATH", defaultStatePath()),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Stub: StubConfig{
			Addr:                  getEnv("STUB_ADDR", "127.0.0.1:8080"),
			JWTSecret:             getEnv("STUB_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("STUB_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("STUB_BCRYPT_COST", 10),
		},
	}

	return cfg, nil
}

// RequestTimeout returns the configured request timeout duration.
func (a APIConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".workforce/state.json"
	}
	return filepath.Join(dir, "workforce", "state.json")
}

func hostFromURL(raw string) string {
	host := raw
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/:"); i >= 0 {
		host = host[:i]
	}
	return host
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
