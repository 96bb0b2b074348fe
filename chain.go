package sitestat

// Chain owns the current phase of one extraction. It forwards each event to
// the current handler and swaps in the handler returned by a handoff.
type Chain struct {
	current Handler
}

// NewChain returns a Chain whose first phase is root.
func NewChain(root Handler) *Chain {
	return &Chain{current: root}
}

// Dispatch delivers ev to the current handler. A returned handler becomes
// current only after the call, so the event that triggered a transition is
// never seen by the new phase.
func (c *Chain) Dispatch(ev Event) Outcome {
	var t Transition
	switch ev.Type {
	case StartTagEvent:
		t = c.current.StartTag(ev.Name, ev.Attrs)
	case TextEvent:
		t = c.current.Text(ev.Data)
	case EndTagEvent:
		t = c.current.EndTag(ev.Name)
	}
	if t.Next != nil {
		c.current = t.Next
	}
	return t.Outcome
}

// Run tokenizes markup and drives a fresh Chain rooted at root until the
// input is exhausted or a handler returns a non-Continue outcome.
func Run(tok Tokenizer, markup string, root Handler) (Outcome, error) {
	c := NewChain(root)
	outcome := Continue
	err := tok.Tokenize(markup, func(ev Event) bool {
		outcome = c.Dispatch(ev)
		return outcome == Continue
	})
	if err != nil {
		return Continue, err
	}
	return outcome, nil
}
