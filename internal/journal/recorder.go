package journal

import (
	"context"

	"github.com/arlebrun/devkitd/internal/infrastructure/logging"
)

// Recorder adapts the repository to the fire-and-forget shape boot code
// expects: a failed journal write is logged and swallowed, never
// stalling or aborting the boot sequence.
type Recorder struct {
	repo   Repository
	log    *logging.Logger
	source string
}

// NewRecorder creates a recorder that stamps every entry with source.
//
// Parameters:
//   - repo: The backing repository
//   - log: Logger for write failures (nil falls back to the default logger)
//   - source: The emitting component name stored with each entry
func NewRecorder(repo Repository, log *logging.Logger, source string) *Recorder {
	if log == nil {
		log = logging.Default()
	}
	return &Recorder{
		repo:   repo,
		log:    log.With("component", "journal"),
		source: source,
	}
}

// RecordEvent writes one journal entry. Errors are logged, not returned.
func (r *Recorder) RecordEvent(ctx context.Context, event string, details map[string]any) {
	entry := &Entry{
		Event:   event,
		Source:  r.source,
		Details: details,
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		r.log.Warn("journal write failed", "event", event, "error", err)
	}
}
