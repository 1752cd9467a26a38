package config

import (
	"strconv"
	"strings"
	"time"
)

const (
	DefaultLoadingMessage        = "Loading {total} images"
	DefaultLoadingFailureMessage = "{total} failures"
	DefaultCompleteIdleTime      = 500 * time.Millisecond

	totalMark = "{total}"
)

// Options is the per-session configuration of a preload.
// A loader snapshots its Options when a session starts; later changes
// only affect sessions started afterwards.
type Options struct {
	// LoadingMessage may contain "{total}"; its first occurrence is replaced with the number of images to load.
	LoadingMessage string `json:"loading_message" mapstructure:"loading_message"`
	// LoadingFailureMessage may contain "{total}"; its first occurrence is replaced with the running failure count.
	LoadingFailureMessage string `json:"loading_failure_message" mapstructure:"loading_failure_message"`
	// CompleteIdleTime is waited after the last settle before the completion fires.
	// Negative means no wait.
	CompleteIdleTime time.Duration `json:"complete_idle_time" mapstructure:"complete_idle_time"`
}

// DefaultOptions returns the stock messages and a 500ms idle time.
func DefaultOptions() Options {
	return Options{
		LoadingMessage:        DefaultLoadingMessage,
		LoadingFailureMessage: DefaultLoadingFailureMessage,
		CompleteIdleTime:      DefaultCompleteIdleTime,
	}
}

// WithDefaults fills empty messages and a zero idle time from DefaultOptions.
func (o Options) WithDefaults() Options {
	if o.LoadingMessage == "" {
		o.LoadingMessage = DefaultLoadingMessage
	}
	if o.LoadingFailureMessage == "" {
		o.LoadingFailureMessage = DefaultLoadingFailureMessage
	}
	if o.CompleteIdleTime == 0 {
		o.CompleteIdleTime = DefaultCompleteIdleTime
	}
	return o
}

// IdleTime is CompleteIdleTime clamped at zero.
func (o Options) IdleTime() time.Duration {
	return max(o.CompleteIdleTime, 0)
}

// Merge returns o with every non-zero field of patch applied on top.
func (o Options) Merge(patch Options) Options {
	if patch.LoadingMessage != "" {
		o.LoadingMessage = patch.LoadingMessage
	}
	if patch.LoadingFailureMessage != "" {
		o.LoadingFailureMessage = patch.LoadingFailureMessage
	}
	if patch.CompleteIdleTime != 0 {
		o.CompleteIdleTime = patch.CompleteIdleTime
	}
	return o
}

// LoadingText renders LoadingMessage for total images.
func (o Options) LoadingText(total int) string {
	return render(o.LoadingMessage, total)
}

// FailureText renders LoadingFailureMessage for the given failure count.
func (o Options) FailureText(failures int) string {
	return render(o.LoadingFailureMessage, failures)
}

// render substitutes the first "{total}" only; later ones stay literal.
func render(tmpl string, n int) string {
	return strings.Replace(tmpl, totalMark, strconv.Itoa(n), 1)
}
