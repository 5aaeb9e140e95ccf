package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"adaptik/pkg/adaptive"
)

// Controller runs the live UI. Its OnProgress method has the
// adaptive.ProgressFunc signature so it plugs straight into a runner.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout))
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnRunStart forwards run identity to the UI.
func (c *Controller) OnRunStart(runID, datasetID, experiment string) {
	c.send(Event{Kind: EventRunStart, RunID: runID, DatasetID: datasetID, Experiment: experiment})
}

// OnProgress forwards item progress to the UI.
func (c *Controller) OnProgress(current, total int) {
	c.send(Event{Kind: EventProgress, Current: current, Total: total})
}

// OnRunEnd forwards the terminal score or error to the UI and closes it.
func (c *Controller) OnRunEnd(results adaptive.RunResults, err error) {
	c.send(Event{Kind: EventRunEnd, RunID: results.RunID, Score: results.Score, Err: err})
	c.Close()
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
