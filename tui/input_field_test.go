// ABOUTME: Tests for InputField focus handling, key forwarding, and rendering.
package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestInputFieldStartsBlurred(t *testing.T) {
	f := NewInputField("Filter", "call_id contains...")
	if f.Focused() {
		t.Error("new field should not be focused")
	}
	if f.Value() != "" {
		t.Errorf("Value() = %q, want empty", f.Value())
	}
}

func TestInputFieldTypingWhenFocused(t *testing.T) {
	f := NewInputField("Filter", "")
	f.Focus()
	f = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a1")})
	if f.Value() != "a1" {
		t.Errorf("Value() = %q, want %q", f.Value(), "a1")
	}
}

func TestInputFieldIgnoresKeysWhenBlurred(t *testing.T) {
	f := NewInputField("Filter", "")
	f = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if f.Value() != "" {
		t.Errorf("blurred field accepted input: %q", f.Value())
	}
}

func TestInputFieldSetValue(t *testing.T) {
	f := NewInputField("Call ID", "")
	f.SetValue("A1")
	if f.Value() != "A1" {
		t.Errorf("Value() = %q, want A1", f.Value())
	}
}

func TestSecretFieldMasksValue(t *testing.T) {
	f := NewSecretField("API key", "")
	f.SetValue("hunter2")
	view := f.View()
	if strings.Contains(view, "hunter2") {
		t.Errorf("secret field rendered its value: %q", view)
	}
	if f.Value() != "hunter2" {
		t.Errorf("Value() = %q, want hunter2", f.Value())
	}
}

func TestInputFieldViewContainsLabel(t *testing.T) {
	f := NewInputField("Call ID", "")
	if !strings.Contains(f.View(), "Call ID") {
		t.Errorf("View() missing label: %q", f.View())
	}
}
