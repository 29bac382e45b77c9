package adminauth

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAuditDispatcherDeliversAndDrains(t *testing.T) {
	sink := NewChannelSink(16)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16, DropIfFull: true}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: auditEventAuthSuccess})
	}
	d.Close()

	received := 0
	for {
		select {
		case <-sink.Events():
			received++
		default:
			if received != 5 {
				t.Fatalf("expected 5 events after drain, got %d", received)
			}
			return
		}
	}
}

func TestAuditDispatcherDropsWhenFull(t *testing.T) {
	// A slow sink keeps the worker busy so the one-slot buffer overflows.
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, slowSink{})

	for i := 0; i < 200; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: auditEventAuthError})
	}

	if d.Dropped() == 0 {
		t.Fatal("expected drops under sustained overflow")
	}
	d.Close()
}

type slowSink struct{}

func (slowSink) Emit(context.Context, AuditEvent) {
	time.Sleep(10 * time.Millisecond)
}

func TestAuditDispatcherDisabled(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NewChannelSink(1))
	if d != nil {
		t.Fatal("expected nil dispatcher when audit is disabled")
	}

	// Emitting through a nil dispatcher is a no-op, not a panic.
	d.Emit(context.Background(), AuditEvent{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("expected zero drops on nil dispatcher")
	}
}

func TestJSONWriterSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: auditEventLogout,
		UserID:    "u1",
		Success:   true,
	})
	sink.Emit(context.Background(), AuditEvent{EventType: auditEventAuthError})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var decoded AuditEvent
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("expected valid JSON, got %v", err)
	}
	if decoded.EventType != auditEventLogout || decoded.UserID != "u1" {
		t.Fatalf("unexpected event: %+v", decoded)
	}
}

func TestAuditErrorCodeMapping(t *testing.T) {
	cases := map[error]AuditErrorCode{
		ErrInvalidToken:              auditErrInvalidToken,
		ErrInvalidRegistrationToken:  auditErrInvalidRegToken,
		ErrInvalidResetToken:         auditErrInvalidResetToken,
		ErrVerificationCodeIncorrect: auditErrCodeIncorrect,
		ErrSuperAdminExists:          auditErrSuperAdminExists,
		ErrSuperAdminRoleMissing:     auditErrSuperAdminRole,
		ErrNotImplemented:            auditErrInternal,
		errPendingSessionBackend:     auditErrUnavailable,
	}
	for err, want := range cases {
		if got := auditErrorCode(err); got != want {
			t.Fatalf("auditErrorCode(%v) = %q, want %q", err, got, want)
		}
	}

	if got := auditErrorCode(nil); got != "" {
		t.Fatalf("expected empty code for nil error, got %q", got)
	}
	if got := auditErrorCode(&ProviderError{Kind: ProviderErrorLoginNotAllowed}); got != auditErrLoginNotAllowed {
		t.Fatalf("expected login-not-allowed code, got %q", got)
	}
}
