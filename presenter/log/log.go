package log

import (
	"context"
	"sync"

	"github.com/projecteru2/core/log"

	"github.com/projecteru2/preload/presenter"
)

// defaultStep is the progress granularity, in percent, at which lines are emitted.
const defaultStep = 10

var _ presenter.Presenter = (*Presenter)(nil)

// Presenter writes session updates as log lines. Used when stdout is not a
// terminal, or when the caller wants a record rather than an overlay.
type Presenter struct {
	ctx  context.Context
	step int

	mu       sync.Mutex
	visible  bool
	disposed bool
	last     int // last percent logged; -1 before the first one
}

// New creates a log presenter. step is the percent granularity of progress
// lines; values <= 0 use 10.
func New(ctx context.Context, step int) *Presenter {
	if step <= 0 {
		step = defaultStep
	}
	return &Presenter{ctx: ctx, step: step, last: -1}
}

func (p *Presenter) ShowLoadingMessage(text string) {
	if !p.active() {
		return
	}
	log.WithFunc("presenter.loading").Infof(p.ctx, "%s", text)
}

// ShowProgress logs 0, 100 and every step in between; repeats are dropped.
func (p *Presenter) ShowProgress(percent int) {
	p.mu.Lock()
	if p.disposed || !p.visible {
		p.mu.Unlock()
		return
	}
	emit := percent == 0 && p.last != 0 ||
		percent == 100 && p.last != 100 ||
		percent-p.last >= p.step
	if percent < p.last {
		// reset by a new session
		emit = true
	}
	if emit {
		p.last = percent
	}
	p.mu.Unlock()

	if emit {
		log.WithFunc("presenter.progress").Infof(p.ctx, "%d%%", percent)
	}
}

func (p *Presenter) ShowFailureMessage(failures int, locator, text string) {
	if !p.active() {
		return
	}
	log.WithFunc("presenter.failure").Warnf(p.ctx, "%s (#%d: %s)", text, failures, locator)
}

func (p *Presenter) ClearFailureMessage() {}

func (p *Presenter) SetVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = visible
	if !visible {
		p.last = -1
	}
}

func (p *Presenter) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disposed = true
	p.visible = false
}

func (p *Presenter) active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible && !p.disposed
}
