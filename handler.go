package sitestat

// Outcome tells the driver whether extraction should keep consuming events.
type Outcome int

// Outcome constants.
const (
	// Continue keeps feeding events to the current handler.
	Continue Outcome = iota

	// EndOfResults stops the document early because the page reported
	// that it has no (more) data. It is a normal termination, not an error.
	EndOfResults
)

// String returns a readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case Continue:
		return "continue"
	case EndOfResults:
		return "end-of-results"
	}
	return "unknown"
}

// Transition is returned by every Handler callback. A non-nil Next hands
// control to a new phase before the following event.
type Transition struct {
	Next    Handler
	Outcome Outcome
}

// Stay keeps the current handler.
var Stay = Transition{}

// Handoff makes next the current handler.
func Handoff(next Handler) Transition {
	return Transition{Next: next}
}

// Finish ends the document with EndOfResults.
func Finish() Transition {
	return Transition{Outcome: EndOfResults}
}

// Handler is one phase of a page extraction. Implementations close over the
// shared Record of the invocation plus their own scratch state, and must not
// be reused after handing off.
type Handler interface {
	StartTag(name string, attrs []Attr) Transition
	Text(data string) Transition
	EndTag(name string) Transition
}

// NopHandler ignores every event. Embed it in phases that only react to
// some of the callbacks.
type NopHandler struct{}

// StartTag implements Handler.
func (NopHandler) StartTag(string, []Attr) Transition { return Stay }

// Text implements Handler.
func (NopHandler) Text(string) Transition { return Stay }

// EndTag implements Handler.
func (NopHandler) EndTag(string) Transition { return Stay }
