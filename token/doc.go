// Package token implements the admin token service: opaque random tokens for
// registration and reset links, HS256-signed session tokens, and numeric
// verification codes for email MFA.
//
// The package is deliberately small and stateless. Session tokens carry a
// single "id" claim plus standard expiry; everything else about the
// principal lives behind the engine's collaborators.
package token
