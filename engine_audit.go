package adminauth

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventAuthSuccess         = "admin.auth.success"
	auditEventAuthError           = "admin.auth.error"
	auditEventLogout              = "admin.logout"
	auditEventMFARequired         = "admin.mfa.required"
	auditEventMFASuccess          = "admin.mfa.success"
	auditEventMFAFailure          = "admin.mfa.failure"
	auditEventMFANotifyError      = "admin.mfa.notify_error"
	auditEventTokenRenewed        = "admin.token.renewed"
	auditEventTokenRenewFailed    = "admin.token.renew_failed"
	auditEventRegistration        = "admin.registration.success"
	auditEventRegistrationError   = "admin.registration.error"
	auditEventAdminBootstrap      = "admin.registration.bootstrap"
	auditEventForgotPassword      = "admin.forgot_password.request"
	auditEventForgotPasswordError = "admin.forgot_password.error"
	auditEventPasswordReset       = "admin.password_reset.success"
	auditEventPasswordResetError  = "admin.password_reset.error"
)

// AuditErrorCode defines a public type used by adminauth APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrInvalidCredentials  AuditErrorCode = "invalid_credentials"
	auditErrLoginNotAllowed     AuditErrorCode = "login_not_allowed"
	auditErrInvalidToken        AuditErrorCode = "invalid_token"
	auditErrInvalidRegToken     AuditErrorCode = "invalid_registration_token"
	auditErrInvalidResetToken   AuditErrorCode = "invalid_reset_token"
	auditErrCodeIncorrect       AuditErrorCode = "verification_code_incorrect"
	auditErrSuperAdminExists    AuditErrorCode = "super_admin_exists"
	auditErrSuperAdminRole      AuditErrorCode = "super_admin_role_missing"
	auditErrValidation          AuditErrorCode = "validation_failed"
	auditErrApplication         AuditErrorCode = "application_error"
	auditErrForbidden           AuditErrorCode = "forbidden"
	auditErrUnavailable         AuditErrorCode = "backend_unavailable"
	auditErrInternal            AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		SessionID: sessionID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	var perr *ProviderError
	if errors.As(err, &perr) {
		switch perr.Kind {
		case ProviderErrorLoginNotAllowed:
			return auditErrLoginNotAllowed
		case ProviderErrorInvalidCredentials:
			return auditErrInvalidCredentials
		default:
			return auditErrInternal
		}
	}

	switch {
	case errors.Is(err, ErrInvalidToken):
		return auditErrInvalidToken
	case errors.Is(err, ErrInvalidRegistrationToken):
		return auditErrInvalidRegToken
	case errors.Is(err, ErrInvalidResetToken):
		return auditErrInvalidResetToken
	case errors.Is(err, ErrVerificationCodeIncorrect):
		return auditErrCodeIncorrect
	case errors.Is(err, ErrSuperAdminExists):
		return auditErrSuperAdminExists
	case errors.Is(err, ErrSuperAdminRoleMissing):
		return auditErrSuperAdminRole
	case errors.Is(err, errPendingSessionBackend):
		return auditErrUnavailable
	case errors.Is(err, ErrNotImplemented):
		return auditErrInternal
	}

	switch {
	case IsValidationError(err):
		return auditErrValidation
	case IsForbiddenError(err):
		return auditErrForbidden
	case IsApplicationError(err):
		return auditErrApplication
	default:
		return auditErrInternal
	}
}
