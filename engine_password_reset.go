package adminauth

import "context"

// ForgotPassword describes the forgotpassword operation and its observable behavior.
//
// ForgotPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The outcome is intentionally indistinguishable for known and unknown
// identifiers; collaborator failures surface only as an audit event.
func (e *Engine) ForgotPassword(ctx context.Context, email string) {
	if e == nil {
		return
	}

	e.metricInc(MetricForgotPasswordRequest)

	pctx, cancel := e.providerContext(ctx)
	defer cancel()

	if err := e.resetter.ForgotPassword(pctx, email); err != nil {
		e.emitAudit(ctx, auditEventForgotPasswordError, false, "", "", ErrNotImplemented, nil)
		return
	}

	e.emitAudit(ctx, auditEventForgotPassword, true, "", "", nil, nil)
}

// ResetPassword describes the resetpassword operation and its observable behavior.
//
// ResetPassword may return an error when input validation, dependency calls, or security checks fail.
// ResetPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ResetPassword(ctx context.Context, resetToken, password string) (*AuthResponse, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	pctx, cancel := e.providerContext(ctx)
	defer cancel()

	user, err := e.resetter.ResetPassword(pctx, resetToken, password)
	if err != nil {
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetError, false, "", "", err, nil)
		if IsValidationError(err) {
			return nil, err
		}
		return nil, ErrNotImplemented
	}
	if user == nil {
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetError, false, "", "", ErrInvalidResetToken, nil)
		return nil, ErrInvalidResetToken
	}

	sessionToken, err := e.tokens.CreateSessionToken(user.ID)
	if err != nil {
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetError, false, user.ID, "", ErrNotImplemented, nil)
		return nil, ErrNotImplemented
	}

	e.metricInc(MetricPasswordResetSuccess)
	e.emitAudit(ctx, auditEventPasswordReset, true, user.ID, "", nil, nil)

	return &AuthResponse{
		Token: sessionToken,
		User:  e.users.SanitizeUser(*user),
	}, nil
}
