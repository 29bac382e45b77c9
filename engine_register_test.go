package adminauth

import (
	"context"
	"errors"
	"testing"
)

func TestRegistrationInfoInvalidToken(t *testing.T) {
	h := newTestHarness(t, nil)

	_, err := h.engine.RegistrationInfo(context.Background(), "unknown-token")
	if !errors.Is(err, ErrInvalidRegistrationToken) {
		t.Fatalf("expected ErrInvalidRegistrationToken, got %v", err)
	}
	if !IsValidationError(err) {
		t.Fatalf("expected validation error class, got %T", err)
	}
}

func TestRegistrationInfoFound(t *testing.T) {
	h := newTestHarness(t, nil)
	h.directory.registrations["tok-1"] = &RegistrationInfo{
		Email:     "invitee@example.com",
		Firstname: "Ines",
		Lastname:  "Invitee",
	}

	info, err := h.engine.RegistrationInfo(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("RegistrationInfo failed: %v", err)
	}
	if info.Email != "invitee@example.com" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestRegisterIssuesToken(t *testing.T) {
	h := newTestHarness(t, nil)

	resp, err := h.engine.Register(context.Background(), RegistrationInput{
		RegistrationToken: "tok-1",
		Firstname:         "Ines",
		Lastname:          "Invitee",
		Password:          "S3cret-password",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}

	payload, valid := h.engine.tokens.DecodeSessionToken(resp.Token)
	if !valid || payload.ID != resp.User.ID {
		t.Fatalf("expected token for %q, got %+v valid=%v", resp.User.ID, payload, valid)
	}
}

func TestRegisterValidationErrorPassesThrough(t *testing.T) {
	h := newTestHarness(t, nil)
	h.directory.registerErr = ErrInvalidRegistrationToken

	_, err := h.engine.Register(context.Background(), RegistrationInput{RegistrationToken: "bad"})
	if !errors.Is(err, ErrInvalidRegistrationToken) {
		t.Fatalf("expected ErrInvalidRegistrationToken, got %v", err)
	}
}

func TestRegisterAdminBootstrap(t *testing.T) {
	h := newTestHarness(t, nil)

	resp, err := h.engine.RegisterAdmin(context.Background(), AdminRegistrationInput{
		Email:     "root@example.com",
		Firstname: "Root",
		Lastname:  "Admin",
		Password:  "S3cret-password",
	})
	if err != nil {
		t.Fatalf("RegisterAdmin failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}

	if len(h.directory.created) != 1 {
		t.Fatalf("expected one created user, got %d", len(h.directory.created))
	}
	created := h.directory.created[0]
	if !created.IsActive {
		t.Fatal("expected bootstrap user to be active")
	}
	if created.RegistrationToken != "" {
		t.Fatal("expected bootstrap user without a registration token")
	}
	if len(created.Roles) != 1 || created.Roles[0] != "r1" {
		t.Fatalf("expected super-admin role, got %v", created.Roles)
	}

	sent := h.telemetry.sent()
	if len(sent) != 1 || sent[0] != "didCreateFirstAdmin" {
		t.Fatalf("expected didCreateFirstAdmin telemetry, got %v", sent)
	}
}

func TestRegisterAdminSecondAttemptRejected(t *testing.T) {
	h := newTestHarness(t, nil)

	if _, err := h.engine.RegisterAdmin(context.Background(), AdminRegistrationInput{
		Email: "root@example.com", Password: "S3cret-password",
	}); err != nil {
		t.Fatalf("first RegisterAdmin failed: %v", err)
	}

	_, err := h.engine.RegisterAdmin(context.Background(), AdminRegistrationInput{
		Email: "other@example.com", Password: "S3cret-password",
	})
	if !errors.Is(err, ErrSuperAdminExists) {
		t.Fatalf("expected ErrSuperAdminExists, got %v", err)
	}
	if !IsApplicationError(err) {
		t.Fatalf("expected application error class, got %T", err)
	}
}

func TestRegisterAdminMissingSuperAdminRole(t *testing.T) {
	h := newTestHarness(t, nil)
	h.roles.role = nil

	_, err := h.engine.RegisterAdmin(context.Background(), AdminRegistrationInput{
		Email: "root@example.com", Password: "S3cret-password",
	})
	if !errors.Is(err, ErrSuperAdminRoleMissing) {
		t.Fatalf("expected ErrSuperAdminRoleMissing, got %v", err)
	}
}
