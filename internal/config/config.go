package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig          `envPrefix:"APP_"`
	Postgres     PostgresConfig     `envPrefix:"POSTGRES_"`
	Redis        RedisConfig        `envPrefix:"REDIS_"`
	Logger       LoggerConfig       `envPrefix:"LOG_"`
	Auth         AuthConfig         `envPrefix:"AUTH_"`
	Sweep        SweepConfig        `envPrefix:"SWEEP_"`
	Storage      StorageConfig      `envPrefix:"STORAGE_"`
	Notification NotificationConfig `envPrefix:"NOTIFY_"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"NAME"                    envDefault:"placement-service"`
	Env                   string `env:"ENV"                     envDefault:"development"`
	Host                  string `env:"HOST"                    envDefault:"0.0.0.0"`
	Port                  string `env:"PORT"                    envDefault:"8080"`
	Version               string `env:"VERSION"                 envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	CORSAllowOrigins      string `env:"CORS_ALLOW_ORIGINS"      envDefault:"*"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string `env:"DSN"`
	ApplicationName string `env:"APPLICATION_NAME"      envDefault:"placement-service"`
	MaxConns        int32  `env:"MAX_CONNS"             envDefault:"10"`
	MinConns        int32  `env:"MIN_CONNS"             envDefault:"2"`
	RunMigrations   bool   `env:"RUN_MIGRATIONS"        envDefault:"true"`
	ConnMaxIdleSec  int32  `env:"CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec  int32  `env:"CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"127.0.0.1:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"       envDefault:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string `env:"LEVEL"  envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string `env:"JWT_SECRET"               envDefault:"dev-secret"`
	AccessTokenTTLMinutes int    `env:"ACCESS_TOKEN_TTL_MINUTES" envDefault:"720"`
	BcryptCost            int    `env:"BCRYPT_COST"              envDefault:"12"`
	StudentIDPrefix       string `env:"STUDENT_ID_PREFIX"        envDefault:"SSGI"`
	SuperAdminEmail       string `env:"SUPER_ADMIN_EMAIL"`
	SuperAdminToken       string `env:"SUPER_ADMIN_TOKEN"`
}

// SweepConfig schedules the daily posting expiry sweep.
type SweepConfig struct {
	Enabled        bool   `env:"ENABLED"          envDefault:"true"`
	Hour           int    `env:"HOUR"             envDefault:"0"`
	Minute         int    `env:"MINUTE"           envDefault:"0"`
	TimeZone       string `env:"TIME_ZONE"        envDefault:"Local"`
	RunOnStartup   bool   `env:"RUN_ON_STARTUP"   envDefault:"true"`
	LockTTLSeconds int    `env:"LOCK_TTL_SECONDS" envDefault:"300"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS"  envDefault:"60"`
}

// StorageConfig points at an S3-compatible bucket for uploaded documents.
type StorageConfig struct {
	Endpoint      string `env:"S3_ENDPOINT"`
	Region        string `env:"S3_REGION"        envDefault:"us-east-1"`
	Bucket        string `env:"S3_BUCKET"        envDefault:"placement-documents"`
	AccessKey     string `env:"S3_ACCESS_KEY"`
	SecretKey     string `env:"S3_SECRET_KEY"`
	UsePathStyle  bool   `env:"S3_USE_PATH_STYLE" envDefault:"true"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	MaxUploadMB   int    `env:"MAX_UPLOAD_MB"    envDefault:"10"`
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string `env:"EMAIL_FROM"  envDefault:"noreply@example.com"`
	WebhookURL string `env:"WEBHOOK_URL"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.App.Env != "development" && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == "dev-secret") {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be set outside development"))
	}
	if (c.Auth.SuperAdminEmail == "") != (c.Auth.SuperAdminToken == "") {
		errs = append(errs, errors.New("AUTH_SUPER_ADMIN_EMAIL and AUTH_SUPER_ADMIN_TOKEN must be set together"))
	}
	if f := c.Logger.Format; f != "" && f != "json" && f != "console" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", f))
	}
	if c.Sweep.Hour < 0 || c.Sweep.Hour > 23 {
		errs = append(errs, fmt.Errorf("SWEEP_HOUR out of range: %d", c.Sweep.Hour))
	}
	if c.Sweep.Minute < 0 || c.Sweep.Minute > 59 {
		errs = append(errs, fmt.Errorf("SWEEP_MINUTE out of range: %d", c.Sweep.Minute))
	}
	if _, err := c.Sweep.Location(); err != nil {
		errs = append(errs, fmt.Errorf("SWEEP_TIME_ZONE: %w", err))
	}
	return errors.Join(errs...)
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

// AccessTokenTTL returns the default session token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// Location resolves the configured sweep time zone.
func (s SweepConfig) Location() (*time.Location, error) {
	if s.TimeZone == "" || s.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(s.TimeZone)
}

// LockTTL bounds how long one instance holds the sweep lock.
func (s SweepConfig) LockTTL() time.Duration {
	return time.Duration(s.LockTTLSeconds) * time.Second
}

// Timeout bounds a single sweep run.
func (s SweepConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// MaxUploadBytes caps accepted multipart file sizes.
func (s StorageConfig) MaxUploadBytes() int64 {
	if s.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(s.MaxUploadMB) << 20
}
