package sitestat

// EventType identifies the kind of tokenizer event.
type EventType int

// EventType constants.
const (
	StartTagEvent EventType = iota
	TextEvent
	EndTagEvent
)

// Attr is a single tag attribute. Attribute order is significant: page
// landmarks are matched by position.
type Attr struct {
	Key string
	Val string
}

// Event is one item of a tokenized document.
type Event struct {
	Type  EventType
	Name  string // tag name for StartTagEvent and EndTagEvent
	Attrs []Attr // StartTagEvent only, in document order
	Data  string // TextEvent only
}

// Tokenizer converts raw markup into a stream of events.
type Tokenizer interface {
	// Tokenize calls emit for every event in markup, in document order.
	// Tokenization stops early when emit returns false.
	Tokenize(markup string, emit func(Event) bool) error
}

// AttrAt reports whether attrs has an attribute at position i with exactly
// the given key and value.
func AttrAt(attrs []Attr, i int, key, val string) bool {
	if i < 0 || i >= len(attrs) {
		return false
	}
	return attrs[i].Key == key && attrs[i].Val == val
}

// AttrsEqual reports whether attrs is exactly the given list of key/value
// pairs, in order.
func AttrsEqual(attrs []Attr, want ...Attr) bool {
	if len(attrs) != len(want) {
		return false
	}
	for i := range attrs {
		if attrs[i] != want[i] {
			return false
		}
	}
	return true
}
