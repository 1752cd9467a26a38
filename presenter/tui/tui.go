package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/projecteru2/preload/presenter"
)

var _ presenter.Presenter = (*Presenter)(nil)

// Options configures the terminal overlay.
type Options struct {
	// Input and Output default to the process stdin/stdout.
	Input  io.Reader
	Output io.Writer
	// OnInterrupt is called when the user presses ctrl+c in the overlay.
	OnInterrupt func()
}

// Presenter draws the preload overlay with bubbletea. The program runs on
// its own goroutine from New until Dispose; every Presenter call is turned
// into a message, so calls from any goroutine are safe.
type Presenter struct {
	prog *tea.Program
	done chan struct{}
	once sync.Once
}

// New starts the overlay program. It renders nothing until SetVisible(true).
func New(opts Options) *Presenter {
	var progOpts []tea.ProgramOption
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	p := &Presenter{
		prog: tea.NewProgram(newModel(dismissDelay, opts.OnInterrupt), progOpts...),
		done: make(chan struct{}),
	}
	go func() {
		defer close(p.done)
		_, _ = p.prog.Run()
	}()
	return p
}

func (p *Presenter) ShowLoadingMessage(text string) { p.prog.Send(loadingMsg(text)) }

func (p *Presenter) ShowProgress(percent int) { p.prog.Send(percentMsg(percent)) }

// ShowFailureMessage shows only the rendered count; the loader logs the locator.
func (p *Presenter) ShowFailureMessage(_ int, _ string, text string) {
	p.prog.Send(failureMsg(text))
}

func (p *Presenter) ClearFailureMessage() { p.prog.Send(clearMsg{}) }

func (p *Presenter) SetVisible(visible bool) { p.prog.Send(visibleMsg(visible)) }

// Dispose stops the program and waits for the terminal to be restored.
func (p *Presenter) Dispose() {
	p.once.Do(func() {
		p.prog.Send(visibleMsg(false))
		p.prog.Quit()
		<-p.done
	})
}

// Done is closed once the program has exited, by Dispose or by ctrl+c.
func (p *Presenter) Done() <-chan struct{} { return p.done }
