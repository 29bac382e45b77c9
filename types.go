package adminauth

import "context"

// AdminUser is the principal record exchanged with collaborators. Instances
// returned by [UserDirectory.SanitizeUser] must carry no credential material.
type AdminUser struct {
	ID        string
	Firstname string
	Lastname  string
	Email     string
	IsActive  bool
	Roles     []string
}

// Role is a role-directory record. The super-admin role is looked up by
// [RoleDirectory.GetSuperAdmin] during bootstrap.
type Role struct {
	ID   string
	Code string
	Name string
}

// Credentials is the transient login input. It is never persisted and never
// appears in audit events or tokens.
type Credentials struct {
	Identifier string
	Password   string

	// RememberMe is carried through a pending MFA session and echoed back
	// by [Engine.VerifyMFA] so the transport can size its cookie lifetime.
	RememberMe bool
}

// RegistrationInfo is the public slice of a pending user record resolved
// from a registration token.
type RegistrationInfo struct {
	Email     string
	Firstname string
	Lastname  string
}

// RegistrationInput is the input for [Engine.Register]. Shape validation is
// the caller's responsibility.
type RegistrationInput struct {
	RegistrationToken string
	Firstname         string
	Lastname          string
	Password          string
}

// AdminRegistrationInput is the input for [Engine.RegisterAdmin].
type AdminRegistrationInput struct {
	Email     string
	Firstname string
	Lastname  string
	Password  string
}

// CreateUserInput is passed to [UserDirectory.Create] during the super-admin
// bootstrap. An empty RegistrationToken means the user is created without one.
type CreateUserInput struct {
	Email             string
	Firstname         string
	Lastname          string
	Password          string
	RegistrationToken string
	IsActive          bool
	Roles             []string
}

// LoginResult is returned by [Engine.Login]. Token is empty when MFARequired
// is set; the client must complete [Engine.VerifyMFA] with MFASessionID to
// obtain a token.
type LoginResult struct {
	Token string
	User  AdminUser

	MFARequired  bool
	MFASessionID string
}

// MFAResult is returned by [Engine.VerifyMFA] after a successful
// verification-code check.
type MFAResult struct {
	Token      string
	RememberMe bool
}

// AuthResponse is the shared {token, user} response of [Engine.Register],
// [Engine.RegisterAdmin], and [Engine.ResetPassword].
type AuthResponse struct {
	Token string
	User  AdminUser
}

// ProviderErrorKind classifies [IdentityProvider] failures. Only recognized
// kinds surface to callers; everything else is flattened.
type ProviderErrorKind uint8

const (
	// ProviderErrorUnknown is an exported constant or variable used by the authentication engine.
	ProviderErrorUnknown ProviderErrorKind = iota
	// ProviderErrorLoginNotAllowed is an exported constant or variable used by the authentication engine.
	ProviderErrorLoginNotAllowed
	// ProviderErrorInvalidCredentials is an exported constant or variable used by the authentication engine.
	ProviderErrorInvalidCredentials
)

// ProviderError is the typed failure returned by [IdentityProvider]
// implementations. Message must be safe to disclose for the
// LoginNotAllowed and InvalidCredentials kinds.
type ProviderError struct {
	Kind    ProviderErrorKind
	Message string
}

func (e *ProviderError) Error() string { return e.Message }

// IdentityProvider verifies an identifier/password pair against the
// credential store. A nil user with a nil error is a contract violation and
// is treated as an internal failure.
//
//	Docs: docs/engine.md
type IdentityProvider interface {
	Authenticate(ctx context.Context, identifier, password string) (*AdminUser, error)
}

// UserDirectory is the user-record collaborator. It owns persistence,
// registration-token storage, and principal sanitization.
type UserDirectory interface {
	SanitizeUser(user AdminUser) AdminUser
	Exists(ctx context.Context) (bool, error)
	Create(ctx context.Context, input CreateUserInput) (*AdminUser, error)
	FindRegistrationInfo(ctx context.Context, registrationToken string) (*RegistrationInfo, error)
	Register(ctx context.Context, input RegistrationInput) (*AdminUser, error)
}

// RoleDirectory resolves the distinguished super-admin role. A (nil, nil)
// return means the role does not exist.
type RoleDirectory interface {
	GetSuperAdmin(ctx context.Context) (*Role, error)
}

// Notifier dispatches the MFA verification code to the user. Dispatch is
// fire-and-forget from the login flow's perspective.
type Notifier interface {
	SendMultiFactorAuthenticationEmail(ctx context.Context, user AdminUser, code string) error
}

// PasswordResetter owns reset-token generation, validation, and credential
// rotation. ForgotPassword failures are swallowed by the engine
// (anti-enumeration); ResetPassword failures surface as validation errors.
type PasswordResetter interface {
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, password string) (*AdminUser, error)
}

// SettingsStore exposes the dynamic advanced settings read per login
// attempt.
type SettingsStore interface {
	MultiFactorAuthentication(ctx context.Context) (bool, error)
}

// StaticSettings is a [SettingsStore] with fixed values, useful for tests
// and deployments without a settings backend.
type StaticSettings struct {
	MFA bool
}

// MultiFactorAuthentication describes the multifactorauthentication operation and its observable behavior.
//
// MultiFactorAuthentication does not mutate shared global state and can be used concurrently.
func (s StaticSettings) MultiFactorAuthentication(context.Context) (bool, error) {
	return s.MFA, nil
}

// Telemetry receives fire-and-forget product events such as the first-admin
// bootstrap signal. Implementations must not block.
type Telemetry interface {
	Send(ctx context.Context, event string)
}

// NoOpTelemetry is a [Telemetry] that discards all events.
type NoOpTelemetry struct{}

// Send describes the send operation and its observable behavior.
//
// Send does not mutate shared global state and can be used concurrently.
func (NoOpTelemetry) Send(context.Context, string) {}
