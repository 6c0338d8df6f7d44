package search

import (
	"sync"
	"time"

	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/jonboulle/clockwork"
)

// View is the search box state of one room view: the term as typed and the
// result of the last debounced evaluation.
type View struct {
	mu       sync.Mutex
	term     string
	result   []domain.Message
	source   func() []domain.Message
	debounce *Debouncer
}

// NewView creates a view that filters the messages returned by source
func NewView(clock clockwork.Clock, window time.Duration, source func() []domain.Message) *View {
	v := &View{source: source}
	v.debounce = NewDebouncer(clock, window, v.evaluate)
	return v
}

// SetTerm records the typed term and schedules a filter evaluation
func (v *View) SetTerm(term string) {
	v.mu.Lock()
	v.term = term
	v.mu.Unlock()

	v.debounce.Submit(term)
}

// Term returns the term as typed
func (v *View) Term() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.term
}

// Displayed returns the last filtered result while a term is set, else all of current
func (v *View) Displayed(current []domain.Message) []domain.Message {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.term == "" {
		out := make([]domain.Message, len(current))
		copy(out, current)
		return out
	}
	out := make([]domain.Message, len(v.result))
	copy(out, v.result)
	return out
}

// Reset clears the term and any pending evaluation
func (v *View) Reset() {
	v.debounce.Stop()

	v.mu.Lock()
	v.term = ""
	v.result = nil
	v.mu.Unlock()
}

func (v *View) evaluate(term string) {
	result := Filter(term, v.source())

	v.mu.Lock()
	v.result = result
	v.mu.Unlock()
}
