package adminauth

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

type fakeProvider struct {
	users    map[string]string // identifier -> password
	accounts map[string]*AdminUser
	err      error
}

func newFakeProvider() *fakeProvider {
	alice := &AdminUser{
		ID:        "u1",
		Firstname: "Alice",
		Lastname:  "Admin",
		Email:     "alice@example.com",
		IsActive:  true,
	}
	return &fakeProvider{
		users:    map[string]string{"alice@example.com": "correct-password-123"},
		accounts: map[string]*AdminUser{"alice@example.com": alice},
	}
}

func (p *fakeProvider) Authenticate(_ context.Context, identifier, password string) (*AdminUser, error) {
	if p.err != nil {
		return nil, p.err
	}
	want, ok := p.users[identifier]
	if !ok || want != password {
		return nil, &ProviderError{
			Kind:    ProviderErrorInvalidCredentials,
			Message: "Invalid credentials",
		}
	}
	return p.accounts[identifier], nil
}

type fakeDirectory struct {
	mu            sync.Mutex
	hasAdmin      bool
	existsErr     error
	registrations map[string]*RegistrationInfo
	registerUser  *AdminUser
	registerErr   error
	created       []CreateUserInput
}

func (d *fakeDirectory) SanitizeUser(user AdminUser) AdminUser {
	return user
}

func (d *fakeDirectory) Exists(context.Context) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasAdmin, d.existsErr
}

func (d *fakeDirectory) Create(_ context.Context, input CreateUserInput) (*AdminUser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.created = append(d.created, input)
	d.hasAdmin = true
	return &AdminUser{
		ID:        "admin-1",
		Firstname: input.Firstname,
		Lastname:  input.Lastname,
		Email:     input.Email,
		IsActive:  input.IsActive,
		Roles:     input.Roles,
	}, nil
}

func (d *fakeDirectory) FindRegistrationInfo(_ context.Context, registrationToken string) (*RegistrationInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registrations[registrationToken], nil
}

func (d *fakeDirectory) Register(_ context.Context, input RegistrationInput) (*AdminUser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.registerErr != nil {
		return nil, d.registerErr
	}
	if d.registerUser != nil {
		return d.registerUser, nil
	}
	return &AdminUser{
		ID:        "u2",
		Firstname: input.Firstname,
		Lastname:  input.Lastname,
		Email:     "invitee@example.com",
		IsActive:  true,
	}, nil
}

type fakeRoles struct {
	role *Role
	err  error
}

func (r *fakeRoles) GetSuperAdmin(context.Context) (*Role, error) {
	return r.role, r.err
}

type sentCode struct {
	user AdminUser
	code string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (n *fakeNotifier) SendMultiFactorAuthenticationEmail(_ context.Context, user AdminUser, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentCode{user: user, code: code})
	return nil
}

func (n *fakeNotifier) codes() []sentCode {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]sentCode, len(n.sent))
	copy(out, n.sent)
	return out
}

type fakeResetter struct {
	forgotErr error
	resetUser *AdminUser
	resetErr  error
}

func (r *fakeResetter) ForgotPassword(context.Context, string) error {
	return r.forgotErr
}

func (r *fakeResetter) ResetPassword(context.Context, string, string) (*AdminUser, error) {
	if r.resetErr != nil {
		return nil, r.resetErr
	}
	return r.resetUser, nil
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
}

func (tr *recordingTelemetry) Send(_ context.Context, event string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.events = append(tr.events, event)
}

func (tr *recordingTelemetry) sent() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	out := make([]string, len(tr.events))
	copy(out, tr.events)
	return out
}

type testHarness struct {
	engine    *Engine
	mr        *miniredis.Miniredis
	rdb       *redis.Client
	sink      *ChannelSink
	provider  *fakeProvider
	directory *fakeDirectory
	roles     *fakeRoles
	notifier  *fakeNotifier
	resetter  *fakeResetter
	settings  *StaticSettings
	telemetry *recordingTelemetry
}

func newTestHarness(t *testing.T, mutate func(*Config)) *testHarness {
	t.Helper()

	mr, rdb := newTestRedis(t)

	cfg := defaultConfig()
	cfg.Auth.Secret = "test-secret-0123456789abcdef"
	cfg.Metrics.Enabled = true
	if mutate != nil {
		mutate(&cfg)
	}

	h := &testHarness{
		mr:        mr,
		rdb:       rdb,
		sink:      NewChannelSink(64),
		provider:  newFakeProvider(),
		directory: &fakeDirectory{registrations: map[string]*RegistrationInfo{}},
		roles:     &fakeRoles{role: &Role{ID: "r1", Code: "super-admin", Name: "Super Admin"}},
		notifier:  &fakeNotifier{},
		resetter:  &fakeResetter{},
		settings:  &StaticSettings{},
		telemetry: &recordingTelemetry{},
	}

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithIdentityProvider(h.provider).
		WithUserDirectory(h.directory).
		WithRoleDirectory(h.roles).
		WithNotifier(h.notifier).
		WithPasswordResetter(h.resetter).
		WithSettings(h.settings).
		WithTelemetry(h.telemetry).
		WithAuditSink(h.sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h.engine = engine
	t.Cleanup(engine.Close)
	return h
}

// drainAudit closes the engine (flushing the dispatcher) and returns every
// event the sink received, keyed by event type.
func (h *testHarness) drainAudit() map[string][]AuditEvent {
	h.engine.Close()

	byType := map[string][]AuditEvent{}
	for {
		select {
		case event := <-h.sink.Events():
			byType[event.EventType] = append(byType[event.EventType], event)
		default:
			return byType
		}
	}
}
