package live

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// State is the accumulated view of one run in flight.
type State struct {
	RunID      string
	DatasetID  string
	Experiment string
	Current    int
	Total      int
	StartedAt  time.Time
	Done       bool
	Summary    string
}

// Model renders a live run progress view using Bubble Tea.
type Model struct {
	state        State
	bar          progress.Model
	events       <-chan Event
	tickInterval time.Duration
	now          time.Time
	noColor      bool
}

// Options configures the live UI model.
type Options struct {
	NoColor      bool
	TickInterval time.Duration
}

// NewModel constructs a live UI model for an event stream.
func NewModel(events <-chan Event, opts Options) Model {
	tickInterval := opts.TickInterval
	if tickInterval <= 0 {
		tickInterval = 200 * time.Millisecond
	}
	var bar progress.Model
	if opts.NoColor {
		bar = progress.New(progress.WithSolidFill("7"))
	} else {
		bar = progress.New(progress.WithDefaultGradient())
	}
	return Model{
		state:        State{},
		bar:          bar,
		events:       events,
		tickInterval: tickInterval,
		now:          time.Now(),
		noColor:      opts.NoColor,
	}
}

// Init starts ticking and waits for the first event.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tick(m.tickInterval))
}

// Update consumes UI events and timer ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(typed.Width-4, 60)
		return m, nil
	case EventMsg:
		m.state = applyEvent(m.state, typed.Event)
		return m, waitForEvent(m.events)
	case tickMsg:
		m.now = time.Time(typed)
		return m, tick(m.tickInterval)
	}
	return m, nil
}

// View renders the live UI.
func (m Model) View() string {
	header := m.renderHeader()
	bar := m.bar.ViewAs(m.percent())
	counter := m.renderCounter()
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, header, bar, counter, footer) + "\n"
}

func (m Model) percent() float64 {
	if m.state.Total <= 0 {
		return 0
	}
	return float64(m.state.Current) / float64(m.state.Total)
}

func (m Model) renderHeader() string {
	line := fmt.Sprintf("experiment %s  dataset %s  run %s",
		orDash(m.state.Experiment), orDash(m.state.DatasetID), orDash(m.state.RunID))
	if m.noColor {
		return line
	}
	return lipgloss.NewStyle().Bold(true).Render(line)
}

func (m Model) renderCounter() string {
	return fmt.Sprintf("item %d/%d", m.state.Current, m.state.Total)
}

func (m Model) renderFooter() string {
	if m.state.Done {
		return m.state.Summary
	}
	if m.state.StartedAt.IsZero() {
		return "waiting for first item"
	}
	elapsed := m.now.Sub(m.state.StartedAt).Round(time.Second)
	return "elapsed " + elapsed.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// EventMsg wraps a UI event for Bubble Tea.
type EventMsg struct {
	Event Event
}

// tickMsg carries a clock tick for updates.
type tickMsg time.Time

// waitForEvent blocks until a UI event is available.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}
		event, ok := <-events
		if !ok {
			return tea.Quit()
		}
		return EventMsg{Event: event}
	}
}

// tick emits a periodic tick message.
func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// applyEvent folds a UI event into the view state.
func applyEvent(state State, event Event) State {
	switch event.Kind {
	case EventRunStart:
		state.RunID = event.RunID
		state.DatasetID = event.DatasetID
		state.Experiment = event.Experiment
		if state.StartedAt.IsZero() {
			state.StartedAt = time.Now()
		}
	case EventProgress:
		state.Current = event.Current
		state.Total = event.Total
	case EventRunEnd:
		state.Done = true
		if event.RunID != "" {
			state.RunID = event.RunID
		}
		switch {
		case event.Err != nil:
			state.Summary = "run failed: " + event.Err.Error()
		case event.Score != nil:
			state.Summary = fmt.Sprintf("theta %.4f  std error %.4f", event.Score.Theta, event.Score.StdError)
		default:
			state.Summary = "run finished"
		}
	}
	return state
}
