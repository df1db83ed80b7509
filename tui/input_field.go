// ABOUTME: InputField wraps a bubbles textinput with a label for the API key, filter, and call id inputs.
// ABOUTME: Keys are forwarded only while focused; the controller reads Value when it issues requests.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputField is a labeled single-line text input.
type InputField struct {
	label     string
	textInput textinput.Model
}

// NewInputField creates an unfocused InputField.
func NewInputField(label, placeholder string) InputField {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	return InputField{label: label, textInput: ti}
}

// NewSecretField creates an InputField that masks its contents.
func NewSecretField(label, placeholder string) InputField {
	f := NewInputField(label, placeholder)
	f.textInput.EchoMode = textinput.EchoPassword
	f.textInput.EchoCharacter = '•'
	return f
}

// Focus gives the field keyboard focus.
func (f *InputField) Focus() {
	f.textInput.Focus()
}

// Blur removes keyboard focus.
func (f *InputField) Blur() {
	f.textInput.Blur()
}

// Focused reports whether the field has keyboard focus.
func (f InputField) Focused() bool {
	return f.textInput.Focused()
}

// Value returns the current text.
func (f InputField) Value() string {
	return f.textInput.Value()
}

// SetValue replaces the current text.
func (f *InputField) SetValue(v string) {
	f.textInput.SetValue(v)
}

// SetWidth sets the visible width of the text area.
func (f *InputField) SetWidth(w int) {
	f.textInput.Width = w
}

// Update forwards a message to the embedded textinput.
func (f InputField) Update(msg tea.Msg) InputField {
	var cmd tea.Cmd
	f.textInput, cmd = f.textInput.Update(msg)
	_ = cmd // cursor blink is not driven in sub-model updates
	return f
}

// View renders "label > value", highlighting the label when focused.
func (f InputField) View() string {
	label := InputLabelStyle.Render(f.label)
	if f.Focused() {
		label = FocusedInputStyle.Render(f.label)
	}
	return label + " " + f.textInput.View()
}
