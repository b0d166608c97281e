package storage

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/fruit-mukbang/internal/engine"
)

// Journal appends every eaten event of one engine session to the store.
// It implements engine.EventSink; write failures are logged and never reach
// the engine.
type Journal struct {
	store   *Store
	session string
	logger  *log.Logger
}

// NewJournal starts a journal with a fresh session id.
func NewJournal(store *Store, logger *log.Logger) *Journal {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Journal{store: store, session: uuid.NewString(), logger: logger}
}

// Session returns the session id rows are written under.
func (j *Journal) Session() string {
	return j.session
}

// Publish journals eaten events and ignores the rest.
func (j *Journal) Publish(ev engine.Event) {
	e, ok := ev.(engine.EatenEvent)
	if !ok {
		return
	}
	if _, err := j.store.SaveEaten(j.session, e.Kind.String(), e.Score, e.Timestamp); err != nil {
		j.logger.Error("journal write failed", "session", j.session, "err", err)
	}
}
