package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the immutable process configuration. It is parsed from the
// environment exactly once in Load and passed explicitly into every
// component; nothing reads ambient state afterwards.
type Config struct {
	ListenAddr         string   `env:"LISTEN_ADDR" envDefault:":3001"`
	TrustProxy         bool     `env:"TRUST_PROXY" envDefault:"false"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	StoreDriver       string        `env:"STORE_DRIVER" envDefault:"sqlite"`
	DBPath            string        `env:"APP_DB_PATH" envDefault:"./data/app.db"`
	DBDSN             string        `env:"APP_DB_DSN"`
	DBMaxOpenConns    int           `env:"APP_DB_MAX_OPEN_CONNS" envDefault:"8"`
	DBMaxIdleConns    int           `env:"APP_DB_MAX_IDLE_CONNS" envDefault:"4"`
	DBConnMaxLifetime time.Duration `env:"APP_DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	UserTokenSecret  string        `env:"USER_TOKEN_SECRET"`
	AdminTokenSecret string        `env:"ADMIN_TOKEN_SECRET"`
	UserTokenTTL     time.Duration `env:"USER_TOKEN_TTL" envDefault:"24h"`
	AdminTokenTTL    time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"8h"`

	PasswordMinLength int `env:"PASSWORD_MIN_LENGTH" envDefault:"6"`

	BootstrapAdminNome     string `env:"BOOTSTRAP_ADMIN_NOME" envDefault:"Administrador"`
	BootstrapAdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`

	LoginRatePerMinute   int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"20"`
	BillingRatePerMinute int `env:"BILLING_RATE_PER_MINUTE" envDefault:"60"`

	NotifySender   string `env:"NOTIFY_SENDER" envDefault:"log"`
	NotifySMTPHost string `env:"NOTIFY_SMTP_HOST" envDefault:"127.0.0.1"`
	NotifySMTPPort int    `env:"NOTIFY_SMTP_PORT" envDefault:"25"`
	NotifyFrom     string `env:"NOTIFY_FROM" envDefault:"noreply@example.com"`
	NotifyTo       string `env:"NOTIFY_TO"`

	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	HTTPReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.StoreDriver)) {
	case "sqlite":
		c.StoreDriver = "sqlite"
	case "mysql":
		c.StoreDriver = "mysql"
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("APP_DB_DSN is required when STORE_DRIVER=mysql")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of: sqlite, mysql")
	}
	if c.DBMaxOpenConns <= 0 || c.DBMaxIdleConns < 0 {
		return fmt.Errorf("invalid DB pool config")
	}
	if len(c.UserTokenSecret) < 24 || len(c.AdminTokenSecret) < 24 {
		return fmt.Errorf("USER_TOKEN_SECRET and ADMIN_TOKEN_SECRET must be set (>=24 chars)")
	}
	if c.UserTokenSecret == c.AdminTokenSecret {
		return fmt.Errorf("USER_TOKEN_SECRET and ADMIN_TOKEN_SECRET must differ")
	}
	if c.UserTokenTTL <= 0 || c.AdminTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.PasswordMinLength < 6 {
		return fmt.Errorf("PASSWORD_MIN_LENGTH must be >= 6")
	}
	if c.LoginRatePerMinute <= 0 || c.BillingRatePerMinute <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	switch c.NotifySender {
	case "log", "smtp":
	default:
		return fmt.Errorf("NOTIFY_SENDER must be one of: log, smtp")
	}
	if c.NotifySender == "smtp" && strings.TrimSpace(c.NotifyTo) == "" {
		return fmt.Errorf("NOTIFY_TO is required when NOTIFY_SENDER=smtp")
	}
	return nil
}
