package adminauth

import (
	"context"

	"github.com/MrEthical07/adminauth/token"
)

// Engine defines a public type used by adminauth APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config    Config
	tokens    *token.Manager
	pending   *pendingSessionStore
	provider  IdentityProvider
	users     UserDirectory
	roles     RoleDirectory
	notifier  Notifier
	resetter  PasswordResetter
	settings  SettingsStore
	telemetry Telemetry
	audit     *auditDispatcher
	metrics   *Metrics
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// providerContext derives the bounded context under which collaborator calls
// run. The cancel func must always be called.
func (e *Engine) providerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, e.config.Provider.Timeout)
}

// RenewToken describes the renewtoken operation and its observable behavior.
//
// RenewToken may return an error when input validation, dependency calls, or security checks fail.
// RenewToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RenewToken(ctx context.Context, sessionToken string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	payload, valid := e.tokens.DecodeSessionToken(sessionToken)
	if !valid {
		e.metricInc(MetricTokenRenewFailed)
		e.emitAudit(ctx, auditEventTokenRenewFailed, false, "", "", ErrInvalidToken, nil)
		return "", ErrInvalidToken
	}

	renewed, err := e.tokens.CreateSessionToken(payload.ID)
	if err != nil {
		e.metricInc(MetricTokenRenewFailed)
		e.emitAudit(ctx, auditEventTokenRenewFailed, false, payload.ID, "", ErrNotImplemented, nil)
		return "", ErrNotImplemented
	}

	e.metricInc(MetricTokenRenewed)
	e.emitAudit(ctx, auditEventTokenRenewed, true, payload.ID, "", nil, nil)
	return renewed, nil
}

// Logout describes the logout operation and its observable behavior.
//
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Logout(ctx context.Context, user AdminUser) {
	if e == nil {
		return
	}

	sanitized := user
	if e.users != nil {
		sanitized = e.users.SanitizeUser(user)
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, sanitized.ID, "", nil, nil)
}
