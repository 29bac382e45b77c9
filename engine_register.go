package adminauth

import "context"

// RegistrationInfo describes the registrationinfo operation and its observable behavior.
//
// RegistrationInfo may return an error when input validation, dependency calls, or security checks fail.
// RegistrationInfo does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RegistrationInfo(ctx context.Context, registrationToken string) (*RegistrationInfo, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	pctx, cancel := e.providerContext(ctx)
	defer cancel()

	info, err := e.users.FindRegistrationInfo(pctx, registrationToken)
	if err != nil {
		return nil, ErrNotImplemented
	}
	if info == nil {
		return nil, ErrInvalidRegistrationToken
	}

	return info, nil
}

// Register describes the register operation and its observable behavior.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Register(ctx context.Context, input RegistrationInput) (*AuthResponse, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	pctx, cancel := e.providerContext(ctx)
	defer cancel()

	user, err := e.users.Register(pctx, input)
	if err != nil {
		e.metricInc(MetricRegistrationFailure)
		e.emitAudit(ctx, auditEventRegistrationError, false, "", "", err, nil)
		if IsValidationError(err) {
			return nil, err
		}
		return nil, ErrNotImplemented
	}

	sessionToken, err := e.tokens.CreateSessionToken(user.ID)
	if err != nil {
		e.metricInc(MetricRegistrationFailure)
		e.emitAudit(ctx, auditEventRegistrationError, false, user.ID, "", ErrNotImplemented, nil)
		return nil, ErrNotImplemented
	}

	e.metricInc(MetricRegistrationSuccess)
	e.emitAudit(ctx, auditEventRegistration, true, user.ID, "", nil, nil)

	return &AuthResponse{
		Token: sessionToken,
		User:  e.users.SanitizeUser(*user),
	}, nil
}

// RegisterAdmin describes the registeradmin operation and its observable behavior.
//
// RegisterAdmin may return an error when input validation, dependency calls, or security checks fail.
// RegisterAdmin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) RegisterAdmin(ctx context.Context, input AdminRegistrationInput) (*AuthResponse, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	pctx, cancel := e.providerContext(ctx)
	defer cancel()

	hasAdmin, err := e.users.Exists(pctx)
	if err != nil {
		e.emitAudit(ctx, auditEventRegistrationError, false, "", "", err, nil)
		return nil, ErrNotImplemented
	}
	if hasAdmin {
		e.emitAudit(ctx, auditEventRegistrationError, false, "", "", ErrSuperAdminExists, nil)
		return nil, ErrSuperAdminExists
	}

	role, err := e.roles.GetSuperAdmin(pctx)
	if err != nil {
		e.emitAudit(ctx, auditEventRegistrationError, false, "", "", err, nil)
		return nil, ErrNotImplemented
	}
	if role == nil {
		e.emitAudit(ctx, auditEventRegistrationError, false, "", "", ErrSuperAdminRoleMissing, nil)
		return nil, ErrSuperAdminRoleMissing
	}

	user, err := e.users.Create(pctx, CreateUserInput{
		Email:     input.Email,
		Firstname: input.Firstname,
		Lastname:  input.Lastname,
		Password:  input.Password,
		IsActive:  true,
		Roles:     []string{role.ID},
	})
	if err != nil {
		e.emitAudit(ctx, auditEventRegistrationError, false, "", "", err, nil)
		if IsValidationError(err) {
			return nil, err
		}
		return nil, ErrNotImplemented
	}

	sessionToken, err := e.tokens.CreateSessionToken(user.ID)
	if err != nil {
		e.emitAudit(ctx, auditEventRegistrationError, false, user.ID, "", ErrNotImplemented, nil)
		return nil, ErrNotImplemented
	}

	e.telemetry.Send(ctx, "didCreateFirstAdmin")

	e.metricInc(MetricAdminBootstrap)
	e.emitAudit(ctx, auditEventAdminBootstrap, true, user.ID, "", nil, nil)

	return &AuthResponse{
		Token: sessionToken,
		User:  e.users.SanitizeUser(*user),
	}, nil
}
