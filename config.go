package adminauth

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config defines a public type used by adminauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Auth     AuthConfig
	MFA      MFAConfig
	Provider ProviderConfig
	Audit    AuditConfig
	Metrics  MetricsConfig

	// ServeAdminPanel gates the startup secret check: a deployment that
	// serves the admin panel must not start without a signing secret.
	ServeAdminPanel bool
}

/*
====================================
AUTH CONFIG
====================================
*/

// AuthConfig defines a public type used by adminauth APIs.
//
// AuthConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuthConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

/*
====================================
MFA CONFIG
====================================
*/

// MFAConfig defines a public type used by adminauth APIs.
//
// MFAConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MFAConfig struct {
	RedisPrefix       string
	PendingSessionTTL time.Duration
}

// ProviderConfig defines a public type used by adminauth APIs.
//
// ProviderConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ProviderConfig struct {
	Timeout time.Duration
}

// AuditConfig defines a public type used by adminauth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by adminauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Auth: AuthConfig{
			TokenExpiry: 30 * 24 * time.Hour,
		},
		MFA: MFAConfig{
			RedisPrefix:       "amp",
			PendingSessionTTL: 5 * time.Minute,
		},
		Provider: ProviderConfig{
			Timeout: 10 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		ServeAdminPanel: true,
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

type envConfig struct {
	Secret            string        `env:"ADMIN_AUTH_SECRET"`
	TokenExpiry       time.Duration `env:"ADMIN_AUTH_TOKEN_EXPIRY" envDefault:"720h"`
	MFARedisPrefix    string        `env:"ADMIN_AUTH_MFA_REDIS_PREFIX" envDefault:"amp"`
	PendingSessionTTL time.Duration `env:"ADMIN_AUTH_MFA_PENDING_TTL" envDefault:"5m"`
	ProviderTimeout   time.Duration `env:"ADMIN_AUTH_PROVIDER_TIMEOUT" envDefault:"10s"`
	AuditEnabled      bool          `env:"ADMIN_AUTH_AUDIT_ENABLED" envDefault:"true"`
	AuditBufferSize   int           `env:"ADMIN_AUTH_AUDIT_BUFFER" envDefault:"256"`
	MetricsEnabled    bool          `env:"ADMIN_AUTH_METRICS_ENABLED" envDefault:"false"`
	ServeAdminPanel   bool          `env:"ADMIN_AUTH_SERVE_ADMIN_PANEL" envDefault:"true"`
}

// ConfigFromEnv loads a [Config] from ADMIN_AUTH_* environment variables on
// top of the library defaults. The returned config is not validated; call
// [Config.Validate] or let [Builder.Build] do it.
func ConfigFromEnv() (Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return Config{}, err
	}

	cfg := defaultConfig()
	cfg.Auth.Secret = raw.Secret
	cfg.Auth.TokenExpiry = raw.TokenExpiry
	cfg.MFA.RedisPrefix = raw.MFARedisPrefix
	cfg.MFA.PendingSessionTTL = raw.PendingSessionTTL
	cfg.Provider.Timeout = raw.ProviderTimeout
	cfg.Audit.Enabled = raw.AuditEnabled
	cfg.Audit.BufferSize = raw.AuditBufferSize
	cfg.Metrics.Enabled = raw.MetricsEnabled
	cfg.ServeAdminPanel = raw.ServeAdminPanel
	return cfg, nil
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation or security checks fail.
// Validate does not mutate shared global state and can be used concurrently.
func (c *Config) Validate() error {
	if err := c.CheckSecretIsDefined(); err != nil {
		return err
	}

	if c.Auth.TokenExpiry <= 0 {
		return errors.New("Auth TokenExpiry must be > 0")
	}

	if c.MFA.RedisPrefix == "" {
		return errors.New("MFA RedisPrefix must not be empty")
	}
	if c.MFA.PendingSessionTTL <= 0 {
		return errors.New("MFA PendingSessionTTL must be > 0")
	}

	if c.Provider.Timeout <= 0 {
		return errors.New("Provider Timeout must be > 0")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	return nil
}

// CheckSecretIsDefined fails when the admin panel is to be served and no
// signing secret is configured. This must block startup, not runtime
// requests: it is checked in [Builder.Build] before any Engine exists.
func (c *Config) CheckSecretIsDefined() error {
	if c.ServeAdminPanel && c.Auth.Secret == "" {
		return errors.New(
			"missing auth.secret: set Auth.Secret (or ADMIN_AUTH_SECRET) before serving the admin panel; " +
				"generate one with 16+ bytes from crypto/rand and store it in an environment variable",
		)
	}
	return nil
}
