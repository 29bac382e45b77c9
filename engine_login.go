package adminauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	start := time.Now()

	user, err := e.authenticateCredentials(ctx, creds)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventAuthError, false, "", "", err, nil)
		return nil, err
	}

	result, err := e.buildLoginResponse(ctx, user, creds.RememberMe)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventAuthError, false, user.ID, "", err, nil)
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.Observe(MetricLoginLatency, time.Since(start))
	}
	return result, nil
}

// authenticateCredentials resolves the principal through the identity
// provider. Only the LoginNotAllowed and InvalidCredentials kinds surface;
// every other failure, including a provider timeout, is flattened.
func (e *Engine) authenticateCredentials(ctx context.Context, creds Credentials) (AdminUser, error) {
	pctx, cancel := e.providerContext(ctx)
	defer cancel()

	user, err := e.provider.Authenticate(pctx, creds.Identifier, creds.Password)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			switch perr.Kind {
			case ProviderErrorLoginNotAllowed:
				return AdminUser{}, perr
			case ProviderErrorInvalidCredentials:
				return AdminUser{}, NewApplicationError(perr.Message)
			}
		}
		return AdminUser{}, ErrNotImplemented
	}
	if user == nil {
		return AdminUser{}, ErrNotImplemented
	}

	return *user, nil
}

// buildLoginResponse decides between direct token issuance and the MFA
// challenge based on the advanced settings read for this attempt.
func (e *Engine) buildLoginResponse(ctx context.Context, user AdminUser, rememberMe bool) (*LoginResult, error) {
	mfaEnabled, err := e.settings.MultiFactorAuthentication(ctx)
	if err != nil {
		return nil, ErrNotImplemented
	}

	sanitized := e.users.SanitizeUser(user)

	if mfaEnabled {
		return e.startMFAChallenge(ctx, user, sanitized, rememberMe)
	}

	sessionToken, err := e.tokens.CreateSessionToken(user.ID)
	if err != nil {
		return nil, ErrNotImplemented
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventAuthSuccess, true, user.ID, "", nil, nil)

	return &LoginResult{
		Token: sessionToken,
		User:  sanitized,
	}, nil
}

// startMFAChallenge persists a fresh pending session and dispatches the
// verification code. The session token is withheld until VerifyMFA.
func (e *Engine) startMFAChallenge(
	ctx context.Context,
	user AdminUser,
	sanitized AdminUser,
	rememberMe bool,
) (*LoginResult, error) {
	code, err := e.tokens.CreateVerificationCode()
	if err != nil {
		return nil, ErrNotImplemented
	}

	sessionID := uuid.NewString()
	record := &pendingSession{
		Code:       code,
		UserID:     user.ID,
		RememberMe: rememberMe,
		ExpiresAt:  time.Now().Add(e.config.MFA.PendingSessionTTL).Unix(),
	}
	if err := e.pending.Save(ctx, sessionID, record, e.config.MFA.PendingSessionTTL); err != nil {
		return nil, ErrNotImplemented
	}

	// Dispatch failures never fail the login: the pending session stays
	// valid and the caller can retry the flow. They are audited only.
	nctx, cancel := e.providerContext(ctx)
	defer cancel()
	if err := e.notifier.SendMultiFactorAuthenticationEmail(nctx, sanitized, code); err != nil {
		e.emitAudit(ctx, auditEventMFANotifyError, false, user.ID, sessionID, ErrNotImplemented, nil)
	}

	e.metricInc(MetricMFARequired)
	e.emitAudit(ctx, auditEventMFARequired, true, user.ID, sessionID, nil, nil)

	return &LoginResult{
		User:         sanitized,
		MFARequired:  true,
		MFASessionID: sessionID,
	}, nil
}

// VerifyMFA describes the verifymfa operation and its observable behavior.
//
// VerifyMFA may return an error when input validation, dependency calls, or security checks fail.
// VerifyMFA does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) VerifyMFA(ctx context.Context, sessionID, code string) (*MFAResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	record, err := e.pending.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, errPendingSessionNotFound) || errors.Is(err, errPendingSessionExpired) {
			e.metricInc(MetricMFAFailure)
			e.emitAudit(ctx, auditEventMFAFailure, false, "", sessionID, ErrVerificationCodeIncorrect, nil)
			return nil, ErrVerificationCodeIncorrect
		}
		e.metricInc(MetricMFAFailure)
		e.emitAudit(ctx, auditEventMFAFailure, false, "", sessionID, err, nil)
		return nil, ErrNotImplemented
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(code)) != 1 {
		// The session survives a mismatch; retries are bounded by its TTL.
		e.metricInc(MetricMFAFailure)
		e.emitAudit(ctx, auditEventMFAFailure, false, record.UserID, sessionID, ErrVerificationCodeIncorrect, nil)
		return nil, ErrVerificationCodeIncorrect
	}

	deleted, err := e.pending.Delete(ctx, sessionID)
	if err != nil {
		e.metricInc(MetricMFAFailure)
		e.emitAudit(ctx, auditEventMFAFailure, false, record.UserID, sessionID, err, nil)
		return nil, ErrNotImplemented
	}
	if !deleted {
		// Another confirm consumed the session first.
		e.metricInc(MetricMFAReplayAttempt)
		e.emitAudit(ctx, auditEventMFAFailure, false, record.UserID, sessionID, ErrVerificationCodeIncorrect, nil)
		return nil, ErrVerificationCodeIncorrect
	}

	sessionToken, err := e.tokens.CreateSessionToken(record.UserID)
	if err != nil {
		e.metricInc(MetricMFAFailure)
		e.emitAudit(ctx, auditEventMFAFailure, false, record.UserID, sessionID, ErrNotImplemented, nil)
		return nil, ErrNotImplemented
	}

	e.metricInc(MetricMFASuccess)
	e.emitAudit(ctx, auditEventMFASuccess, true, record.UserID, sessionID, nil, nil)

	return &MFAResult{
		Token:      sessionToken,
		RememberMe: record.RememberMe,
	}, nil
}
