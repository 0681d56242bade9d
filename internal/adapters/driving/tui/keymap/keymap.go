// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
//
// While the question input is focused only bindings that cannot be typed
// (Quit, Ask, ToggleMode, Back) are active. The rest apply to the results pane.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Ask submits the question.
	Ask key.Binding

	// ToggleMode switches between baseline and reranked ranking.
	ToggleMode key.Binding

	// MoreResults increases k.
	MoreResults key.Binding

	// FewerResults decreases k.
	FewerResults key.Binding

	// Up scrolls the results up.
	Up key.Binding

	// Down scrolls the results down.
	Down key.Binding

	// Edit returns focus to the question input.
	Edit key.Binding

	// Back leaves the question input for the results pane.
	Back key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Ask: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ask"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "mode"),
		),
		MoreResults: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more"),
		),
		FewerResults: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "fewer"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("/", "i"),
			key.WithHelp("/", "new question"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "results"),
		),
	}
}

// InputHelp returns keybindings shown while typing a question.
func (k *KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.Ask, k.ToggleMode, k.Back}
}

// ResultsHelp returns keybindings shown while browsing results.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Edit, k.ToggleMode, k.MoreResults, k.FewerResults, k.Quit}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
