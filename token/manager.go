package token

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiry is the session-token lifetime used when Config.ExpiresIn is
// zero.
const DefaultExpiry = 30 * 24 * time.Hour

// Config defines a public type used by token APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Secret    string
	ExpiresIn time.Duration
}

// Payload is the decoded claim set of a session token.
type Payload struct {
	ID string
}

type sessionClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// Manager defines a public type used by token APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	secret    []byte
	expiresIn time.Duration
}

// NewManager describes the newmanager operation and its observable behavior.
//
// NewManager may return an error when input validation, dependency calls, or security checks fail.
// NewManager does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: signing secret required")
	}

	expiresIn := cfg.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = DefaultExpiry
	}

	return &Manager{
		secret:    []byte(cfg.Secret),
		expiresIn: expiresIn,
	}, nil
}

// CreateToken returns a 160-bit opaque token, hex encoded. It carries no
// structure; callers persist it alongside the record it authorizes.
func (m *Manager) CreateToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// CreateSessionToken signs an HS256 session token whose only custom claim is
// the user id.
func (m *Manager) CreateSessionToken(userID string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiresIn)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// DecodeSessionToken reports the payload and validity of a session token. It
// never returns an error: malformed, tampered, and expired tokens all come
// back as (zero payload, false).
func (m *Manager) DecodeSessionToken(sessionToken string) (Payload, bool) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(
		sessionToken,
		claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return Payload{}, false
	}

	return Payload{ID: claims.ID}, true
}

// CreateVerificationCode returns a 6-digit numeric code: three random bytes
// reduced modulo 1,000,000 and zero-padded.
func (m *Manager) CreateVerificationCode() (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[1:]); err != nil {
		return "", err
	}
	n := binary.BigEndian.Uint32(buf[:]) % 1000000
	return fmt.Sprintf("%06d", n), nil
}
