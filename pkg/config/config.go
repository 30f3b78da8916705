package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "MINISHOP"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv             = "MINISHOP_APP_ENV"
	EnvPort               = "MINISHOP_APP_PORT"
	EnvLogLevel           = "MINISHOP_LOG_LEVEL"
	EnvLogFormat          = "MINISHOP_LOG_FORMAT"
	EnvCORSOrigins        = "MINISHOP_HTTP_CORS_ORIGINS"
	EnvCartDefaultSession = "MINISHOP_CART_DEFAULT_SESSION"
	EnvCartIdleTTL        = "MINISHOP_CART_IDLE_TTL"
	EnvCartSweepInterval  = "MINISHOP_CART_SWEEP_INTERVAL"
	EnvVerifyTotals       = "MINISHOP_CHECKOUT_VERIFY_TOTALS"
	EnvRedisURL           = "MINISHOP_REDIS_URL"
	EnvRedisAddr          = "MINISHOP_REDIS_ADDR"
)

type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Cart     CartConfig
	Checkout CheckoutConfig
	Redis    RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Cart.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MINISHOP_APP_ENV" default:"dev"`
	Port         string `envconfig:"MINISHOP_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MINISHOP_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"MINISHOP_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"MINISHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"MINISHOP_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"MINISHOP_HTTP_WRITE_TIMEOUT" default:"10s"`
	IdleTimeout     time.Duration `envconfig:"MINISHOP_HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"MINISHOP_HTTP_SHUTDOWN_TIMEOUT" default:"15s"`
	CORSOrigins     []string      `envconfig:"MINISHOP_HTTP_CORS_ORIGINS" default:"http://localhost:3000"`
}

type CartConfig struct {
	DefaultSession string `envconfig:"MINISHOP_CART_DEFAULT_SESSION" default:"default"`
	// IdleTTL enables idle cart eviction when positive.
	IdleTTL       time.Duration `envconfig:"MINISHOP_CART_IDLE_TTL" default:"0"`
	SweepInterval time.Duration `envconfig:"MINISHOP_CART_SWEEP_INTERVAL" default:"5m"`
}

// EvictionEnabled reports whether the idle cart sweeper should run.
func (c CartConfig) EvictionEnabled() bool {
	return c.IdleTTL > 0
}

func (c CartConfig) validate() error {
	if strings.TrimSpace(c.DefaultSession) == "" {
		return fmt.Errorf("%s must not be blank", EnvCartDefaultSession)
	}
	if c.IdleTTL < 0 {
		return fmt.Errorf("%s must not be negative", EnvCartIdleTTL)
	}
	if c.EvictionEnabled() && c.SweepInterval <= 0 {
		return fmt.Errorf("%s must be positive when %s is set", EnvCartSweepInterval, EnvCartIdleTTL)
	}
	return nil
}

type CheckoutConfig struct {
	// VerifyTotals recomputes the checkout total from the stored cart instead of
	// trusting the client-supplied amount.
	VerifyTotals bool `envconfig:"MINISHOP_CHECKOUT_VERIFY_TOTALS" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MINISHOP_REDIS_URL"`
	Address      string        `envconfig:"MINISHOP_REDIS_ADDR"`
	Password     string        `envconfig:"MINISHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"MINISHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MINISHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MINISHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MINISHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MINISHOP_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"MINISHOP_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}
