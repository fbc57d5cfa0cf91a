package session

import (
	"strings"
	"testing"

	"github.com/medimart/medimart-backend/pkg/config"
)

func testConfig() config.SessionConfig {
	return config.SessionConfig{Secret: "test-secret", Issuer: "medimart", TTLMinutes: 60}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	mgr, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, sessionID, err := mgr.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected non-empty session id")
	}

	got, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != sessionID {
		t.Fatalf("verify returned %q, want %q", got, sessionID)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	mgr, _ := NewManager(testConfig())
	token, _, err := mgr.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := mgr.Verify(tampered); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	issuerA, _ := NewManager(config.SessionConfig{Secret: "test-secret", Issuer: "a", TTLMinutes: 60})
	issuerB, _ := NewManager(config.SessionConfig{Secret: "test-secret", Issuer: "b", TTLMinutes: 60})

	token, _, err := issuerA.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuerB.Verify(token); err == nil {
		t.Fatal("expected issuer mismatch to be rejected")
	}
}

func TestVerifyRejectsBlankToken(t *testing.T) {
	mgr, _ := NewManager(testConfig())
	if _, err := mgr.Verify("   "); err == nil {
		t.Fatal("expected blank token to be rejected")
	}
}

func TestNewManagerRequiresSecretAndIssuer(t *testing.T) {
	if _, err := NewManager(config.SessionConfig{Issuer: "medimart"}); err == nil || !strings.Contains(err.Error(), "secret") {
		t.Fatalf("expected secret error, got %v", err)
	}
	if _, err := NewManager(config.SessionConfig{Secret: "s"}); err == nil || !strings.Contains(err.Error(), "issuer") {
		t.Fatalf("expected issuer error, got %v", err)
	}
}
