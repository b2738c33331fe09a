package network

import (
	"context"
	"fmt"
	"time"
)

// clockBaseline is the earliest wall-clock reading treated as synced.
// Boards come up at the epoch until SNTP completes; a reading before
// this date means time is not yet trustworthy for TLS or timestamps.
var clockBaseline = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// syncPollInterval is how often WaitSync re-reads the clock.
const syncPollInterval = 500 * time.Millisecond

// SystemClock reports time sync against the host's wall clock.
//
// The host's NTP daemon plays the firmware's SNTP client; WaitSync only
// has to observe that it has done its job.
type SystemClock struct {
	// Now substitutes the time source in tests. Defaults to time.Now.
	Now func() time.Time
}

// WaitSync blocks until the clock reads a post-baseline time or the
// context ends.
//
// Returns:
//   - error: nil once synced, ErrSyncTimeout wrapping the context error
//     if the window closes first
func (c SystemClock) WaitSync(ctx context.Context) error {
	now := c.Now
	if now == nil {
		now = time.Now
	}

	if now().After(clockBaseline) {
		return nil
	}

	ticker := time.NewTicker(syncPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrSyncTimeout, ctx.Err())
		case <-ticker.C:
			if now().After(clockBaseline) {
				return nil
			}
		}
	}
}
