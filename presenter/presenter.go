package presenter

// Presenter renders a preload session. The loader renders all message
// templates itself and only hands over finished text and numbers.
// Calls come from the session goroutine, one at a time; Hide/Remove on the
// loader may call SetVisible/Dispose from other goroutines, so
// implementations must tolerate concurrent use.
type Presenter interface {
	// ShowLoadingMessage sets the headline, e.g. "Loading 12 images".
	ShowLoadingMessage(text string)
	// ShowProgress sets the progress indicator, 0-100.
	ShowProgress(percent int)
	// ShowFailureMessage reports that locator failed; failures is the
	// running failure count and text the rendered failure message.
	ShowFailureMessage(failures int, locator, text string)
	// ClearFailureMessage removes any failure message.
	ClearFailureMessage()
	// SetVisible shows or hides the overlay.
	SetVisible(visible bool)
	// Dispose releases everything the presenter holds. It is not reused afterwards.
	Dispose()
}

// Nop discards everything.
var Nop Presenter = nop{}

type nop struct{}

func (nop) ShowLoadingMessage(string)               {}
func (nop) ShowProgress(int)                        {}
func (nop) ShowFailureMessage(int, string, string) {}
func (nop) ClearFailureMessage()                    {}
func (nop) SetVisible(bool)                         {}
func (nop) Dispose()                                {}
