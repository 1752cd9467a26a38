package progress

// Tracker receives progress events from fetchers and preload sessions.
// Implementations must be safe for concurrent use: fetch events arrive from
// one goroutine per locator.
type Tracker interface {
	OnEvent(any)
}

// NewTracker creates a Tracker from a typed callback function.
// Events of any other type are dropped, so several typed trackers can be
// combined with Multi and each sees only what it asked for.
func NewTracker[E any](fn func(E)) Tracker {
	return funcTracker(func(v any) {
		if e, ok := v.(E); ok {
			fn(e)
		}
	})
}

type funcTracker func(any)

func (f funcTracker) OnEvent(e any) { f(e) }

// Multi fans every event out to all non-nil trackers, in order.
func Multi(trackers ...Tracker) Tracker {
	var ts []Tracker
	for _, t := range trackers {
		if t != nil {
			ts = append(ts, t)
		}
	}
	return funcTracker(func(e any) {
		for _, t := range ts {
			t.OnEvent(e)
		}
	})
}

// OrNop returns t, or Nop when t is nil.
func OrNop(t Tracker) Tracker {
	if t == nil {
		return Nop
	}
	return t
}

// Nop is a no-op tracker for callers that don't need progress.
var Nop Tracker = funcTracker(func(any) {})
