package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/safetyqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/safetyqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/safetyqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/safetyqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/safetyqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/safetyqa/internal/core/domain"
)

// App is the single-screen question answering UI.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	input   *input.QuestionInput
	results viewport.Model
	spinner spinner.Model
	status  *status.Bar

	mode      domain.SearchMode
	k         int
	lastQuery string
	result    *domain.AnswerResult
	asking    bool

	diagnostics *domain.Diagnostics

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		keymap:  km,
		input:   input.NewQuestionInput(s),
		results: viewport.New(80, 10),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Title)),
		status:  status.NewBar(s, km),
		mode:    domain.ModeReranked,
		k:       domain.DefaultK,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.input.Init(),
		tea.SetWindowTitle("safetyqa"),
		a.loadDiagnostics(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if !a.asking {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		a.status.SetSpinner(a.spinner.View())
		return a, cmd

	case messages.AskCompleted:
		a.asking = false
		if msg.Err != nil {
			a.err = msg.Err
			a.status.SetState(status.StateError)
			a.status.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.err = nil
		a.result = msg.Result
		a.status.SetState(status.StateAnswered)
		a.status.SetContextCount(len(msg.Result.Contexts))
		a.refreshResults()
		a.results.GotoTop()
		return a, nil

	case messages.DiagnosticsLoaded:
		if msg.Err == nil {
			d := msg.Diagnostics
			a.diagnostics = &d
		}
		return a, nil
	}

	if a.input.Focused() {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		return a, tea.Quit
	}

	if a.input.Focused() {
		switch {
		case keymap.Matches(keyStr, a.keymap.Ask):
			return a, a.submit()
		case keymap.Matches(keyStr, a.keymap.ToggleMode):
			a.toggleMode()
			return a, nil
		case keymap.Matches(keyStr, a.keymap.Back):
			a.focusResults()
			return a, nil
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	switch {
	case keymap.Matches(keyStr, a.keymap.Quit):
		return a, tea.Quit
	case keymap.Matches(keyStr, a.keymap.Edit):
		a.status.SetInputFocused(true)
		return a, a.input.Focus()
	case keymap.Matches(keyStr, a.keymap.ToggleMode):
		a.toggleMode()
		return a, a.ask()
	case keymap.Matches(keyStr, a.keymap.MoreResults):
		if a.setK(a.k + 1) {
			return a, a.ask()
		}
		return a, nil
	case keymap.Matches(keyStr, a.keymap.FewerResults):
		if a.setK(a.k - 1) {
			return a, a.ask()
		}
		return a, nil
	case keymap.Matches(keyStr, a.keymap.Ask):
		return a, a.ask()
	}

	var cmd tea.Cmd
	a.results, cmd = a.results.Update(msg)
	return a, cmd
}

// submit takes the typed question and asks it.
func (a *App) submit() tea.Cmd {
	q := strings.TrimSpace(a.input.Value())
	if q == "" {
		a.status.SetState(status.StateError)
		a.status.SetMessage("type a question first")
		return nil
	}
	a.lastQuery = q
	a.focusResults()
	return a.ask()
}

// ask re-runs the last question with the current mode and k.
func (a *App) ask() tea.Cmd {
	if a.lastQuery == "" || a.asking {
		return nil
	}
	a.asking = true
	a.status.SetState(status.StateAsking)
	a.status.SetSpinner(a.spinner.View())

	req := domain.QueryRequest{Query: a.lastQuery, K: a.k, Mode: a.mode}
	qa := a.ports.QA
	ctx := a.ctx
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		result, err := qa.Ask(ctx, req)
		return messages.AskCompleted{Request: req, Result: result, Err: err}
	})
}

func (a *App) loadDiagnostics() tea.Cmd {
	if a.ports.Ingestion == nil {
		return nil
	}
	ingestion := a.ports.Ingestion
	ctx := a.ctx
	return func() tea.Msg {
		d, err := ingestion.Diagnostics(ctx)
		return messages.DiagnosticsLoaded{Diagnostics: d, Err: err}
	}
}

func (a *App) toggleMode() {
	if a.mode == domain.ModeReranked {
		a.mode = domain.ModeBaseline
	} else {
		a.mode = domain.ModeReranked
	}
	a.status.SetMode(a.mode)
}

// setK reports whether k changed.
func (a *App) setK(k int) bool {
	if k < domain.MinK || k > domain.MaxK || k == a.k {
		return false
	}
	a.k = k
	a.status.SetK(k)
	return true
}

func (a *App) focusResults() {
	a.input.Blur()
	a.status.SetInputFocused(false)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.header(),
		a.input.View(),
		a.results.View(),
		a.status.View(),
	)
}

func (a *App) header() string {
	title := a.styles.Title.Render("safetyqa") + a.styles.Muted.Render("  industrial safety Q&A")
	if a.diagnostics != nil {
		title += a.styles.Muted.Render(fmt.Sprintf("  |  %d documents, %d vectors",
			a.diagnostics.Documents, a.diagnostics.Vectors))
	}
	return title
}

// SetDimensions sizes every component for a terminal of width x height.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.input.SetWidth(width)
	a.status.SetWidth(width)

	chrome := lipgloss.Height(a.header()) + lipgloss.Height(a.input.View()) + lipgloss.Height(a.status.View())
	a.results.Width = width
	a.results.Height = max(height-chrome, 1)
	a.refreshResults()
}

func (a *App) refreshResults() {
	a.results.SetContent(renderResult(a.styles, a.result, a.results.Width))
}

// renderResult formats an answer and its passages for the results pane.
func renderResult(s *styles.Styles, r *domain.AnswerResult, width int) string {
	if r == nil {
		return s.Muted.Render("Ask a question and press enter.")
	}

	textWidth := max(width-6, 20)
	var b strings.Builder

	switch {
	case r.HasAnswer():
		b.WriteString(s.Subtitle.Render("Answer"))
		b.WriteString("\n")
		b.WriteString(s.Answer.Width(textWidth).Render(*r.Answer))
	case len(r.Contexts) > 0:
		b.WriteString(s.NoAnswer.Width(textWidth).Render("No passage was confident enough to answer. Closest passages are below."))
	default:
		b.WriteString(s.NoAnswer.Width(textWidth).Render("No relevant passages found. Has the corpus been ingested?"))
		return b.String()
	}
	b.WriteString("\n\n")

	label := "baseline"
	if r.RerankerUsed {
		label = "reranked"
	}
	b.WriteString(s.Subtitle.Render(fmt.Sprintf("Contexts (%s)", label)))
	b.WriteString("\n")

	body := lipgloss.NewStyle().Width(textWidth).PaddingLeft(4)
	for i, c := range r.Contexts {
		b.WriteString(fmt.Sprintf("\n[%d] %s %s %s\n",
			i+1,
			s.Normal.Bold(true).Render(c.Source.Title),
			s.Muted.Render(fmt.Sprintf("chunk %d", c.Source.ChunkIndex)),
			s.Score.Render(fmt.Sprintf("%.3f", c.Score)),
		))
		if c.Source.URL != "" {
			b.WriteString(body.Render(s.Muted.Render(c.Source.URL)))
			b.WriteString("\n")
		}
		b.WriteString(body.Render(c.Text))
		b.WriteString("\n")
	}
	return b.String()
}

// Mode returns the current ranking mode.
func (a *App) Mode() domain.SearchMode {
	return a.mode
}

// K returns the current number of passages requested.
func (a *App) K() int {
	return a.k
}

// Result returns the last answer.
func (a *App) Result() *domain.AnswerResult {
	return a.result
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}
