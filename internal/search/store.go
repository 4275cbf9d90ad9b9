// Package search holds the search state machine of a session.
package search

import (
	"github.com/f3rmion/sentences/internal/sentences"
)

// Ticket identifies one submitted query. An outcome is only applied when its
// ticket is the latest one issued by the store.
type Ticket struct {
	Generation uint64
	Term       string
}

// Store owns the single SearchState of a session. It is not safe for
// concurrent use; callers route every event through one goroutine (the
// bubbletea update loop or a single request handler).
type Store struct {
	state      sentences.State
	generation uint64 // Monotonic counter for stale detection
}

// NewStore creates an idle store.
func NewStore() *Store {
	return &Store{}
}

// State returns a snapshot of the current state.
func (s *Store) State() sentences.State {
	return s.state
}

// Generation returns the generation of the latest submitted query.
func (s *Store) Generation() uint64 {
	return s.generation
}

// SetInput records the current contents of the input field.
func (s *Store) SetInput(raw string) {
	s.state.Term = raw
}

// Submit starts a new query for raw. It reports false, leaving the state
// untouched, when raw is blank or when the same term is already in flight.
func (s *Store) Submit(raw string) (Ticket, bool) {
	term, ok := sentences.NormalizeTerm(raw)
	if !ok {
		return Ticket{}, false
	}
	if s.state.Status == sentences.StatusLoading && s.state.LastExecutedTerm == term {
		return Ticket{}, false
	}

	s.generation++
	s.state.Term = term
	s.state.LastExecutedTerm = term
	s.state.Status = sentences.StatusLoading
	s.state.ErrorMessage = ""
	s.state.Result = nil

	return Ticket{Generation: s.generation, Term: term}, true
}

// Apply writes an outcome back into the state. Outcomes of superseded
// tickets are discarded and Apply reports false.
func (s *Store) Apply(t Ticket, out sentences.Outcome) bool {
	if t.Generation != s.generation || s.state.Status != sentences.StatusLoading {
		return false
	}

	if out.Succeeded() {
		examples := make([]sentences.Example, len(out.Examples))
		copy(examples, out.Examples)

		s.state.Status = sentences.StatusSuccess
		s.state.ErrorMessage = ""
		s.state.Result = &sentences.Result{
			Term:             t.Term,
			DetectedLanguage: out.DetectedLanguage,
			Examples:         examples,
		}
		return true
	}

	s.state.Status = sentences.StatusError
	s.state.ErrorMessage = out.Message
	s.state.Result = nil
	return true
}

// FailClipboard surfaces a clipboard failure without touching the result.
func (s *Store) FailClipboard(msg string) {
	s.state.ErrorMessage = msg
}

// Reset returns to the idle state, e.g. when history navigation lands on the
// home page. Any in-flight query is superseded.
func (s *Store) Reset() {
	s.generation++
	s.state = sentences.State{}
}
