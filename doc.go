// Package adminauth provides the authentication core for a content-management
// admin panel: credential login with optional email-code MFA, signed session
// token issuance and renewal, registration including the one-time
// super-admin bootstrap, and password-reset orchestration.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// adminauth is the state machine only. Credential verification, user and role
// persistence, mail delivery, and dynamic settings are consumed through the
// narrow collaborator interfaces ([IdentityProvider], [UserDirectory],
// [RoleDirectory], [Notifier], [PasswordResetter], [SettingsStore]) and are
// never implemented here. HTTP routing and request-shape validation belong to
// the caller.
//
// # What this package must NOT do
//
//   - Persist user or role records, or inspect password hashes.
//   - Expose Redis clients or pending-session encoding details in its API.
//   - Leak internal collaborator failure detail to callers; unexpected
//     provider errors are flattened to [ErrNotImplemented].
package adminauth
