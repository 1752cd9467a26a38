package preload

// Phase represents a stage in the preload session lifecycle.
type Phase int

const (
	PhaseStart  Phase = iota // Fetches issued, Total known.
	PhaseSettle              // One locator settled (Locator set, Err non-nil on failure).
	PhaseDone                // All locators settled; completion is about to fire.
)

// Event describes a single preload session update.
type Event struct {
	Phase   Phase
	Session string
	Total   int
	Loaded  int
	Failed  int
	Percent int
	Locator string
	Err     error
}
