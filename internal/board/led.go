// Package board hosts stand-ins for the devkit's on-board controls.
//
// The real board drives a user LED and reads a reset button over GPIO.
// On the host there are no pins, so the agent substitutes a logging LED
// and a configurable reset input; the packages that consume them
// (telemetry, the configuration manager) see the same behaviour either
// way.
package board

import (
	"sync"

	"github.com/arlebrun/devkitd/internal/infrastructure/logging"
)

// LoggingLED models the user LED by logging state changes.
//
// Thread Safety:
//   - Safe for concurrent use from multiple goroutines.
type LoggingLED struct {
	mu  sync.Mutex
	on  bool
	log *logging.Logger
}

// NewLoggingLED returns an LED that reports transitions on the given
// logger. A nil logger falls back to the default logger.
func NewLoggingLED(log *logging.Logger) *LoggingLED {
	if log == nil {
		log = logging.Default()
	}
	return &LoggingLED{
		log: log.With("component", "board"),
	}
}

// Set drives the LED. Every call is logged, matching the firmware's
// behaviour of reporting each inbound LED message.
func (l *LoggingLED) Set(on bool) {
	l.mu.Lock()
	l.on = on
	l.mu.Unlock()

	if on {
		l.log.Info("led on")
	} else {
		l.log.Info("led off")
	}
}

// State returns the last value written.
func (l *LoggingLED) State() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.on
}
