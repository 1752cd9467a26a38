package preload

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/projecteru2/core/log"
	"golang.org/x/sync/errgroup"

	"github.com/projecteru2/preload/config"
	"github.com/projecteru2/preload/fetch"
	"github.com/projecteru2/preload/presenter"
	"github.com/projecteru2/preload/progress"
	preloadProgress "github.com/projecteru2/preload/progress/preload"
	"github.com/projecteru2/preload/types"
)

// session is the bookkeeping of one Preload call. Only the run goroutine
// touches loaded and failed; fetch goroutines hand their image over through
// settled and never touch it again.
type session struct {
	id         string
	opts       config.Options
	fetcher    fetch.Fetcher
	presenter  presenter.Presenter
	tracker    progress.Tracker
	onComplete CompleteFunc

	all     []*types.Image
	loaded  []*types.Image
	failed  []*types.Image
	settled chan *types.Image
}

func newSession(l *Loader, opts config.Options, locators []string, onComplete CompleteFunc) *session {
	all := types.NewImages(locators)
	return &session{
		id:         uuid.NewString(),
		opts:       opts,
		fetcher:    l.fetcher,
		presenter:  l.presenter,
		tracker:    l.tracker,
		onComplete: onComplete,
		all:        all,
		loaded:     make([]*types.Image, 0, len(all)),
		failed:     make([]*types.Image, 0, len(all)),
		settled:    make(chan *types.Image, len(all)),
	}
}

// start resets the presenter, issues every fetch in submission order and
// hands the rest to the run goroutine.
func (s *session) start(ctx context.Context) {
	total := len(s.all)
	log.WithFunc("preload.start").Infof(ctx, "session %s: loading %d images", s.id, total)

	s.presenter.SetVisible(true)
	s.presenter.ShowLoadingMessage(s.opts.LoadingText(total))
	s.presenter.ClearFailureMessage()
	s.presenter.ShowProgress(0)
	s.tracker.OnEvent(preloadProgress.Event{Phase: preloadProgress.PhaseStart, Session: s.id, Total: total})

	// No limit: every locator loads in parallel. Fetch errors are recorded
	// on the image, never returned, so the group only tracks completion.
	var g errgroup.Group
	for _, img := range s.all {
		g.Go(func() error {
			if err := s.fetcher.Fetch(ctx, img, s.tracker); err != nil {
				img.Data = nil
				img.Err = err
			}
			s.settled <- img
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(s.settled)
	}()

	go s.run(ctx)
}

func (s *session) run(ctx context.Context) {
	logger := log.WithFunc("preload.run")
	total := len(s.all)

	for img := range s.settled {
		s.settle(ctx, img)
	}

	s.tracker.OnEvent(preloadProgress.Event{
		Phase:   preloadProgress.PhaseDone,
		Session: s.id,
		Total:   total,
		Loaded:  len(s.loaded),
		Failed:  len(s.failed),
		Percent: s.percent(),
	})
	logger.Infof(ctx, "session %s: %d loaded, %d failed", s.id, len(s.loaded), len(s.failed))

	if idle := s.opts.IdleTime(); idle > 0 {
		timer := time.NewTimer(idle)
		<-timer.C
	}
	s.onComplete(s.all, s.loaded, s.failed)
}

func (s *session) settle(ctx context.Context, img *types.Image) {
	if img.Loaded() {
		s.loaded = append(s.loaded, img)
	} else {
		s.failed = append(s.failed, img)
		log.WithFunc("preload.settle").Warnf(ctx, "session %s: failure of loading image %q: %v", s.id, img.Locator, img.Err)
		s.presenter.ShowFailureMessage(len(s.failed), img.Locator, s.opts.FailureText(len(s.failed)))
	}
	percent := s.percent()
	s.presenter.ShowProgress(percent)
	s.tracker.OnEvent(preloadProgress.Event{
		Phase:   preloadProgress.PhaseSettle,
		Session: s.id,
		Total:   len(s.all),
		Loaded:  len(s.loaded),
		Failed:  len(s.failed),
		Percent: percent,
		Locator: img.Locator,
		Err:     img.Err,
	})
}

// percent is the share of successfully loaded images, rounded down.
func (s *session) percent() int {
	if len(s.all) == 0 {
		return 0
	}
	return len(s.loaded) * 100 / len(s.all) //nolint:mnd
}
