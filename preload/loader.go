package preload

import (
	"context"
	"fmt"
	"sync"

	"github.com/projecteru2/preload/config"
	"github.com/projecteru2/preload/fetch"
	"github.com/projecteru2/preload/presenter"
	"github.com/projecteru2/preload/progress"
	"github.com/projecteru2/preload/types"
)

// CompleteFunc receives the outcome of a session: all handles in submission
// order, then the loaded and failed ones in settlement order.
type CompleteFunc func(all, loaded, failed []*types.Image)

// Result is the outcome of a session as a value.
type Result struct {
	All    []*types.Image
	Loaded []*types.Image
	Failed []*types.Image
}

// Loader fetches sets of images into memory while driving a Presenter.
// A Loader may run several sessions at once; they share its presenter.
type Loader struct {
	fetcher   fetch.Fetcher
	presenter presenter.Presenter
	tracker   progress.Tracker

	mu   sync.Mutex
	opts config.Options
}

// Option customizes a Loader.
type Option func(*Loader)

// WithTracker receives preload.Event values for every session and the
// fetchers' byte-level fetch.Event values.
func WithTracker(t progress.Tracker) Option {
	return func(l *Loader) { l.tracker = progress.OrNop(t) }
}

// New creates a Loader. A nil presenter discards all rendering.
func New(fetcher fetch.Fetcher, pres presenter.Presenter, opts config.Options, options ...Option) *Loader {
	if pres == nil {
		pres = presenter.Nop
	}
	l := &Loader{
		fetcher:   fetcher,
		presenter: pres,
		tracker:   progress.Nop,
		opts:      opts.WithDefaults(),
	}
	for _, o := range options {
		o(l)
	}
	return l
}

// SetOptions replaces the options used by sessions started from now on.
// Empty fields take their defaults; running sessions are not affected.
func (l *Loader) SetOptions(opts config.Options) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.opts = opts.WithDefaults()
}

// Options returns the options the next session will use.
func (l *Loader) Options() config.Options {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opts
}

// Preload starts one fetch per locator and returns immediately. onComplete
// is called exactly once, from the session goroutine, after every locator has
// settled and the configured idle time has passed. An empty locator list
// completes with three empty slices. Individual load failures never surface
// here; they end up in the failed slice.
func (l *Loader) Preload(ctx context.Context, locators []string, onComplete CompleteFunc) error {
	if onComplete == nil {
		return fmt.Errorf("%w: onComplete must be a function, got nil", ErrInvalidArgument)
	}
	if l.fetcher == nil {
		return fmt.Errorf("%w: loader has no fetcher", ErrInvalidArgument)
	}
	s := newSession(l, l.Options(), locators, onComplete)
	s.start(ctx)
	return nil
}

// PreloadWait is Preload with the completion delivered as a return value.
// It blocks until the session completes or ctx is done; in the latter case
// the session keeps running and its result is dropped.
func (l *Loader) PreloadWait(ctx context.Context, locators []string) (Result, error) {
	ch := make(chan Result, 1)
	if err := l.Preload(ctx, locators, func(all, loaded, failed []*types.Image) {
		ch <- Result{All: all, Loaded: loaded, Failed: failed}
	}); err != nil {
		return Result{}, err
	}
	select {
	case res := <-ch:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Hide hides the presenter, clears the failure message and resets progress.
func (l *Loader) Hide() {
	l.presenter.SetVisible(false)
	l.presenter.ClearFailureMessage()
	l.presenter.ShowProgress(0)
}

// Remove disposes of the presenter.
func (l *Loader) Remove() {
	l.presenter.Dispose()
}
