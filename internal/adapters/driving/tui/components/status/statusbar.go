// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/safetyqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/safetyqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady    State = "ready"
	StateAsking   State = "asking"
	StateAnswered State = "answered"
	StateError    State = "error"
)

// Bar displays the ranking mode, k, application state and keybinding hints.
type Bar struct {
	styles       *styles.Styles
	keymap       *keymap.KeyMap
	state        State
	message      string
	spinner      string
	mode         domain.SearchMode
	k            int
	contextCount int
	inputFocused bool
	width        int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles:       s,
		keymap:       km,
		state:        StateReady,
		mode:         domain.ModeReranked,
		k:            domain.DefaultK,
		inputFocused: true,
		width:        80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := b.width - b.styles.StatusBar.GetHorizontalFrameSize() - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	badges := b.styles.Badge.Render(string(b.mode)) + " " + b.styles.Badge.Render(fmt.Sprintf("k=%d", b.k))

	var state string
	switch b.state {
	case StateAsking:
		state = b.styles.Muted.Render(strings.TrimSpace(b.spinner + " Retrieving..."))
	case StateError:
		if b.message != "" {
			state = b.styles.Error.Render("Error: " + b.message)
		} else {
			state = b.styles.Error.Render("Error")
		}
	case StateAnswered:
		state = b.styles.Normal.Render(fmt.Sprintf("%d passages", b.contextCount))
	default:
		state = b.styles.Muted.Render("Ready")
	}
	return badges + " " + state
}

func (b *Bar) renderRight() string {
	bindings := b.keymap.ResultsHelp()
	if b.inputFocused {
		bindings = b.keymap.InputHelp()
	}
	return b.styles.Muted.Render(hints(bindings))
}

func hints(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		parts = append(parts, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return strings.Join(parts, " | ")
}

// SetState sets the current state.
func (b *Bar) SetState(state State) {
	b.state = state
}

// State returns the current state.
func (b *Bar) State() State {
	return b.state
}

// SetMessage sets the error message.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetSpinner sets the spinner frame shown while asking.
func (b *Bar) SetSpinner(frame string) {
	b.spinner = frame
}

// SetMode sets the displayed ranking mode.
func (b *Bar) SetMode(mode domain.SearchMode) {
	b.mode = mode
}

// SetK sets the displayed passage count.
func (b *Bar) SetK(k int) {
	b.k = k
}

// SetContextCount sets the number of passages in the last result.
func (b *Bar) SetContextCount(n int) {
	b.contextCount = n
}

// SetInputFocused selects which keybinding hints are shown.
func (b *Bar) SetInputFocused(focused bool) {
	b.inputFocused = focused
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// Width returns the current width.
func (b *Bar) Width() int {
	return b.width
}
