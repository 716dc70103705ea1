package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	OTP          OTPConfig
	Notification NotificationConfig
	Storage      StorageConfig
	Worker       WorkerConfig
	Board        BoardConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	JobCacheTTL time.Duration
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
	// Output is a zap sink such as stdout, stderr or a file path.
	Output string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	SessionKeyTTLDays     int
	BootstrapAdminEmail   string
	BootstrapAdminPass    string
}

// OTPConfig controls the admin one-time-code flow.
type OTPConfig struct {
	CodeTTLMinutes int
	MaxAttempts    int
	TrustTTLDays   int
}

// NotificationConfig controls notification delivery.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
	Async      bool
}

// StorageConfig points at the attachment store.
type StorageConfig struct {
	BasePath    string
	BaseURL     string
	MaxUploadMB int
}

// WorkerConfig configures the asynq notification worker.
type WorkerConfig struct {
	Enabled     bool
	Concurrency int
	Queue       string
	MaxRetry    int
}

// BoardConfig holds the terminal client's settings.
type BoardConfig struct {
	APIURL         string
	SessionPath    string
	PollInterval   time.Duration
	PrefetchDelay  time.Duration
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "onboarding-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:    os.Getenv("REDIS_PASSWORD"),
			DB:          redisDB,
			JobCacheTTL: getEnvAsDuration("REDIS_JOB_CACHE_TTL", time.Minute),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 720),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			SessionKeyTTLDays:     getEnvAsInt("AUTH_SESSION_KEY_TTL_DAYS", 30),
			BootstrapAdminEmail:   os.Getenv("AUTH_BOOTSTRAP_ADMIN_EMAIL"),
			BootstrapAdminPass:    os.Getenv("AUTH_BOOTSTRAP_ADMIN_PASSWORD"),
		},
		OTP: OTPConfig{
			CodeTTLMinutes: getEnvAsInt("OTP_CODE_TTL_MINUTES", 10),
			MaxAttempts:    getEnvAsInt("OTP_MAX_ATTEMPTS", 5),
			TrustTTLDays:   getEnvAsInt("OTP_TRUST_TTL_DAYS", 30),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
			Async:      getEnvAsBool("NOTIFY_ASYNC", true),
		},
		Storage: StorageConfig{
			BasePath:    getEnv("STORAGE_BASE_PATH", "./uploads"),
			BaseURL:     getEnv("STORAGE_BASE_URL", "/api/upload"),
			MaxUploadMB: getEnvAsInt("STORAGE_MAX_UPLOAD_MB", 10),
		},
		Worker: WorkerConfig{
			Enabled:     getEnvAsBool("WORKER_ENABLED", true),
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 5),
			Queue:       getEnv("WORKER_QUEUE", "notifications"),
			MaxRetry:    getEnvAsInt("WORKER_MAX_RETRY", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadBoard reads the terminal client's configuration.
func LoadBoard() BoardConfig {
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return BoardConfig{
		APIURL:         getEnv("BOARDCTL_API_URL", "http://localhost:8080"),
		SessionPath:    getEnv("BOARDCTL_SESSION", filepath.Join(home, ".config", "boardctl", "session.json")),
		PollInterval:   getEnvAsDuration("BOARDCTL_POLL_INTERVAL", 30*time.Second),
		PrefetchDelay:  getEnvAsDuration("BOARDCTL_PREFETCH_DELAY", 200*time.Millisecond),
		RequestTimeout: getEnvAsDuration("BOARDCTL_REQUEST_TIMEOUT", 15*time.Second),
	}
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.App.Env == "production" && c.Auth.JWTSecret == "dev-secret" {
		return fmt.Errorf("AUTH_JWT_SECRET must be set in production")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("invalid AUTH_BCRYPT_COST: %d", c.Auth.BcryptCost)
	}
	if c.OTP.TrustTTLDays <= 0 {
		return fmt.Errorf("invalid OTP_TRUST_TTL_DAYS: %d", c.OTP.TrustTTLDays)
	}
	return nil
}

// TrustTTL returns how long a verified OTP is honoured.
func (o OTPConfig) TrustTTL() time.Duration {
	return time.Duration(o.TrustTTLDays) * 24 * time.Hour
}

// CodeTTL returns the lifetime of an issued OTP code.
func (o OTPConfig) CodeTTL() time.Duration {
	return time.Duration(o.CodeTTLMinutes) * time.Minute
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
