package adminauth

import (
	"errors"

	"github.com/MrEthical07/adminauth/token"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by adminauth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	provider  IdentityProvider
	users     UserDirectory
	roles     RoleDirectory
	notifier  Notifier
	resetter  PasswordResetter
	settings  SettingsStore
	telemetry Telemetry
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithIdentityProvider describes the withidentityprovider operation and its observable behavior.
//
// WithIdentityProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithIdentityProvider(p IdentityProvider) *Builder {
	b.provider = p
	return b
}

// WithUserDirectory describes the withuserdirectory operation and its observable behavior.
//
// WithUserDirectory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithUserDirectory(d UserDirectory) *Builder {
	b.users = d
	return b
}

// WithRoleDirectory describes the withroledirectory operation and its observable behavior.
//
// WithRoleDirectory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRoleDirectory(d RoleDirectory) *Builder {
	b.roles = d
	return b
}

// WithNotifier describes the withnotifier operation and its observable behavior.
//
// WithNotifier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithNotifier(n Notifier) *Builder {
	b.notifier = n
	return b
}

// WithPasswordResetter describes the withpasswordresetter operation and its observable behavior.
//
// WithPasswordResetter does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithPasswordResetter(r PasswordResetter) *Builder {
	b.resetter = r
	return b
}

// WithSettings describes the withsettings operation and its observable behavior.
//
// WithSettings does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithSettings(s SettingsStore) *Builder {
	b.settings = s
	return b
}

// WithTelemetry describes the withtelemetry operation and its observable behavior.
//
// WithTelemetry does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithTelemetry(t Telemetry) *Builder {
	b.telemetry = t
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.provider == nil {
		return nil, errors.New("identity provider required")
	}
	if b.users == nil {
		return nil, errors.New("user directory required")
	}
	if b.roles == nil {
		return nil, errors.New("role directory required")
	}
	if b.notifier == nil {
		return nil, errors.New("notifier required")
	}
	if b.resetter == nil {
		return nil, errors.New("password resetter required")
	}

	engine := &Engine{
		config:   cfg,
		pending:  newPendingSessionStore(b.redis, cfg.MFA.RedisPrefix),
		provider: b.provider,
		users:    b.users,
		roles:    b.roles,
		notifier: b.notifier,
		resetter: b.resetter,
	}

	engine.settings = b.settings
	if engine.settings == nil {
		engine.settings = StaticSettings{}
	}

	engine.telemetry = b.telemetry
	if engine.telemetry == nil {
		engine.telemetry = NoOpTelemetry{}
	}

	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	engine.metrics = NewMetrics(cfg.Metrics)

	tm, err := token.NewManager(token.Config{
		Secret:    cfg.Auth.Secret,
		ExpiresIn: cfg.Auth.TokenExpiry,
	})
	if err != nil {
		return nil, err
	}
	engine.tokens = tm

	b.built = true

	return engine, nil
}
