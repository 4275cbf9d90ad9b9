// Package sentences provides the core types shared by the query executor,
// the search state store and the front ends.
package sentences

import "strings"

// Example is one generated usage sentence bundle.
type Example struct {
	Target        string `json:"target"`        // Sentence in the detected language
	English       string `json:"english"`       // English translation
	Pronunciation string `json:"pronunciation"` // Romanized or phonetic rendering
}

// Result is the outcome of one successful query. It is replaced wholesale on
// every new query and never mutated in place.
type Result struct {
	Term             string
	DetectedLanguage string
	Examples         []Example
}

// Status is the lifecycle phase of the current search.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// String returns a lowercase name for the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the full search state of a session.
type State struct {
	Term             string // Current contents of the input
	LastExecutedTerm string // Term of the most recently submitted query
	Status           Status
	ErrorMessage     string
	Result           *Result // nil unless a query succeeded
}

// Examples returns the examples of the current result, or nil.
func (s State) Examples() []Example {
	if s.Result == nil {
		return nil
	}
	return s.Result.Examples
}

// DetectedLanguage returns the detected language of the current result.
func (s State) DetectedLanguage() string {
	if s.Result == nil {
		return ""
	}
	return s.Result.DetectedLanguage
}

// OutcomeKind distinguishes successful and failed lookups.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeError
)

// Outcome is the normalized result of a single remote lookup.
type Outcome struct {
	Kind             OutcomeKind
	DetectedLanguage string
	Examples         []Example
	Message          string // User-facing error text when Kind is OutcomeError
	StatusCode       int    // HTTP status of the response, 0 on transport failure
}

// Succeeded reports whether the outcome carries examples.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}

// NormalizeTerm trims raw input. It reports false for input that must never
// trigger a query.
func NormalizeTerm(raw string) (string, bool) {
	term := strings.TrimSpace(raw)
	return term, term != ""
}

// SameLanguage reports whether two language names refer to the same
// language, ignoring case and surrounding whitespace.
func SameLanguage(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
