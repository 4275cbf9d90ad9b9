package search

import (
	"context"
	"log/slog"

	"github.com/f3rmion/sentences/internal/sentences"
)

// Executor performs a single remote lookup.
type Executor interface {
	Execute(ctx context.Context, term string) sentences.Outcome
}

// Recorder is notified of every accepted submit, e.g. to push a history entry.
type Recorder interface {
	Record(term string)
}

// Controller drives one store through complete, synchronous query cycles.
type Controller struct {
	store    *Store
	executor Executor
	recorder Recorder
	logger   *slog.Logger
}

// NewController creates a controller. recorder may be nil.
func NewController(store *Store, executor Executor, recorder Recorder, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:    store,
		executor: executor,
		recorder: recorder,
		logger:   logger,
	}
}

// Run submits raw, executes the query and applies its outcome. It reports
// false when the submit was suppressed.
func (c *Controller) Run(ctx context.Context, raw string) (sentences.State, bool) {
	ticket, ok := c.store.Submit(raw)
	if !ok {
		return c.store.State(), false
	}
	if c.recorder != nil {
		c.recorder.Record(ticket.Term)
	}

	out := c.executor.Execute(ctx, ticket.Term)
	if !c.store.Apply(ticket, out) {
		c.logger.Debug("discarding stale outcome",
			slog.String("term", ticket.Term),
			slog.Uint64("generation", ticket.Generation),
		)
	}
	return c.store.State(), true
}
