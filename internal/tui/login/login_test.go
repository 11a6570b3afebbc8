// ABOUTME: Tests for the sign-in form
// ABOUTME: Validates field checks and failure handling

package login

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/shopfront/internal/theme"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"eve.holt@reqres.in", false},
		{"  eve.holt@reqres.in  ", false},
		{"", true},
		{"   ", true},
		{"eve.holt", true},
	}
	for _, tt := range tests {
		err := validateEmail(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateEmail(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := validatePassword(""); err == nil {
		t.Error("expected error for empty password")
	}
	if err := validatePassword("cityslicka"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewPrefillsEmail(t *testing.T) {
	l := New(theme.LightPalette, "eve.holt@reqres.in")
	if l.email != "eve.holt@reqres.in" {
		t.Errorf("expected prefilled email, got %q", l.email)
	}
	if l.form == nil {
		t.Fatal("expected form to be created")
	}
}

func TestSubmitBuildsCredentials(t *testing.T) {
	l := New(theme.LightPalette, " eve.holt@reqres.in ")
	l.password = "cityslicka"
	l.register = true

	_, cmd := l.submit()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(SubmitMsg)
	if !ok {
		t.Fatalf("expected SubmitMsg, got %T", cmd())
	}
	if msg.Credentials.Email != "eve.holt@reqres.in" {
		t.Errorf("expected trimmed email, got %q", msg.Credentials.Email)
	}
	if msg.Credentials.Password != "cityslicka" {
		t.Errorf("expected password to be passed through")
	}
	if !msg.Register {
		t.Error("expected register flag")
	}
	if !l.Busy() {
		t.Error("expected form to be busy after submit")
	}
}

func TestBusyIgnoresInput(t *testing.T) {
	l := New(theme.LightPalette, "")
	l.busy = true

	_, cmd := l.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Error("expected no command while busy")
	}
	if !strings.Contains(l.View(), "Signing in") {
		t.Errorf("expected busy view, got %q", l.View())
	}
}

func TestEscCancels(t *testing.T) {
	l := New(theme.LightPalette, "")

	_, cmd := l.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Error("expected CancelledMsg")
	}
}

func TestFailKeepsEmailAndShowsReason(t *testing.T) {
	l := New(theme.LightPalette, "eve.holt@reqres.in")
	l.password = "wrong"
	l.busy = true

	l.Fail("user not found")

	if l.Busy() {
		t.Error("expected form to accept input again")
	}
	if l.password != "" {
		t.Error("expected password to be cleared")
	}
	if l.email != "eve.holt@reqres.in" {
		t.Error("expected email to be kept")
	}
	if !strings.Contains(l.View(), "user not found") {
		t.Error("expected reason in view")
	}
}
