package location

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/f3rmion/sentences/internal/session"
)

// Synchronizer hydrates a search from the address on start-up and records
// every submitted search as a new history entry.
type Synchronizer struct {
	loc      Location
	sessions session.Store
	logger   *slog.Logger
}

// NewSynchronizer creates a synchronizer. sessions may be nil when no
// redirect payload can exist.
func NewSynchronizer(loc Location, sessions session.Store, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{loc: loc, sessions: sessions, logger: logger}
}

// Hydrate inspects the start-up address and reports the term to search for,
// if any. A pending redirect payload is consumed first and wins; an
// unrecognized path is normalized to the root.
func (s *Synchronizer) Hydrate(ctx context.Context) (string, bool) {
	if term, ok := s.consumeRedirect(ctx); ok {
		s.loc.Replace(SearchURL(term))
		return term, true
	}

	route, term := Resolve(s.loc.Current())
	switch route {
	case RouteInvalid:
		s.logger.Debug("normalizing unknown path", slog.String("path", s.loc.Current().Path))
		s.loc.Replace(RootURL())
		return "", false
	case RouteSearch:
		return term, term != ""
	default:
		return "", false
	}
}

// Navigate resolves a back/forward destination. It reports the term to
// search for, or false when the destination is the home page.
func (s *Synchronizer) Navigate(u *url.URL) (string, bool) {
	route, term := Resolve(u)
	if route != RouteSearch || term == "" {
		return "", false
	}
	return term, true
}

// Record pushes the address of a search for term.
func (s *Synchronizer) Record(term string) {
	s.loc.Push(SearchURL(term))
}

func (s *Synchronizer) consumeRedirect(ctx context.Context) (string, bool) {
	if s.sessions == nil {
		return "", false
	}

	raw, ok, err := s.sessions.Take(ctx, session.RedirectKey)
	if err != nil {
		s.logger.Warn("reading redirect payload", slog.String("error", err.Error()))
		return "", false
	}
	if !ok {
		return "", false
	}

	u, err := ParseLink(raw)
	if err != nil {
		s.logger.Warn("ignoring malformed redirect payload", slog.String("error", err.Error()))
		return "", false
	}
	route, term := Resolve(u)
	if route != RouteSearch || term == "" {
		return "", false
	}

	s.logger.Info("replaying redirect", slog.String("term", term))
	return term, true
}
