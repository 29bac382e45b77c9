package adminauth

import "errors"

// ValidationError reports a malformed or expired single-use token
// (registration token, reset token, renewal input). The message is safe to
// show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ApplicationError reports a business-rule violation: rejected credentials,
// a duplicate super-admin bootstrap, or a missing super-admin role. The
// message is safe to show to the caller.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string { return e.Message }

// ForbiddenError reports a failed second-factor verification.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// NewValidationError describes the newvalidationerror operation and its observable behavior.
//
// NewValidationError does not mutate shared global state and can be used concurrently.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NewApplicationError describes the newapplicationerror operation and its observable behavior.
//
// NewApplicationError does not mutate shared global state and can be used concurrently.
func NewApplicationError(message string) *ApplicationError {
	return &ApplicationError{Message: message}
}

// NewForbiddenError describes the newforbiddenerror operation and its observable behavior.
//
// NewForbiddenError does not mutate shared global state and can be used concurrently.
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// IsValidationError reports whether err is, or wraps, a [ValidationError].
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsApplicationError reports whether err is, or wraps, an [ApplicationError].
func IsApplicationError(err error) bool {
	var target *ApplicationError
	return errors.As(err, &target)
}

// IsForbiddenError reports whether err is, or wraps, a [ForbiddenError].
func IsForbiddenError(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

var (
	// ErrNotImplemented is an exported constant or variable used by the authentication engine.
	// Every unexpected collaborator failure is flattened to it so internal
	// detail never reaches the caller.
	ErrNotImplemented = errors.New("not implemented")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrInvalidToken is an exported constant or variable used by the authentication engine.
	ErrInvalidToken = NewValidationError("Invalid token")
	// ErrInvalidRegistrationToken is an exported constant or variable used by the authentication engine.
	ErrInvalidRegistrationToken = NewValidationError("Invalid registrationToken")
	// ErrInvalidResetToken is an exported constant or variable used by the authentication engine.
	ErrInvalidResetToken = NewValidationError("Invalid reset token")
	// ErrVerificationCodeIncorrect is an exported constant or variable used by the authentication engine.
	ErrVerificationCodeIncorrect = NewForbiddenError("Verification code is incorrect")
	// ErrSuperAdminExists is an exported constant or variable used by the authentication engine.
	ErrSuperAdminExists = NewApplicationError("You cannot register a new super admin")
	// ErrSuperAdminRoleMissing is an exported constant or variable used by the authentication engine.
	ErrSuperAdminRoleMissing = NewApplicationError("Cannot register the first admin because the super admin role doesn't exist.")
)
