package board

import (
	"io"
	"log/slog"
	"testing"

	"github.com/arlebrun/devkitd/internal/infrastructure/logging"
)

func testLogger() *logging.Logger {
	return &logging.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// =============================================================================
// LED Tests
// =============================================================================

func TestLoggingLEDState(t *testing.T) {
	led := NewLoggingLED(testLogger())

	if led.State() {
		t.Error("State() = true before any Set")
	}

	led.Set(true)
	if !led.State() {
		t.Error("State() = false after Set(true)")
	}

	led.Set(false)
	if led.State() {
		t.Error("State() = true after Set(false)")
	}
}

func TestNewLoggingLEDNilLogger(t *testing.T) {
	led := NewLoggingLED(nil)

	led.Set(true)
	if !led.State() {
		t.Error("State() = false after Set(true)")
	}
}

// =============================================================================
// Reset Input Tests
// =============================================================================

func TestNoResetInput(t *testing.T) {
	if (NoResetInput{}).Pressed() {
		t.Error("NoResetInput.Pressed() = true, want false")
	}
}

func TestStaticResetInput(t *testing.T) {
	if !(StaticResetInput{Held: true}).Pressed() {
		t.Error("StaticResetInput{Held: true}.Pressed() = false, want true")
	}
	if (StaticResetInput{}).Pressed() {
		t.Error("StaticResetInput{}.Pressed() = true, want false")
	}
}
