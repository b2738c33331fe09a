package manager

import (
	"context"
	"time"

	"github.com/arlebrun/devkitd/internal/deviceconfig"
)

// WaitForUserOverride gives the operator a window to interrupt boot and
// enter the provisioning dialogue. It polls the console for pending
// input and prints a once-per-second countdown.
//
// Parameters:
//   - ctx: cancels the wait early (reported as no override)
//   - timeout: how long to wait; <= 0 returns false immediately
//
// Returns:
//   - bool: true when a key arrived inside the window; the pending
//     input is consumed so it does not leak into the dialogue
func (m *Manager) WaitForUserOverride(ctx context.Context, timeout time.Duration) bool {
	if timeout <= 0 {
		return false
	}

	m.setState(StateAwaitingOverride)
	m.console.Printf("Press any key to enter configuration mode\r\n")

	deadline := time.Now().Add(timeout)
	announced := int(timeout/time.Second) + 1

	for {
		if m.console.InputPending() {
			m.console.DrainInput()
			m.log.Info("user override requested")
			return true
		}

		now := time.Now()
		if !now.Before(deadline) {
			m.setState(StateTimedOut)
			return false
		}

		if left := int((deadline.Sub(now) + time.Second - 1) / time.Second); left < announced {
			announced = left
			m.console.Printf("Continuing in %d...\r\n", left)
		}

		select {
		case <-ctx.Done():
			m.setState(StateTimedOut)
			return false
		case <-time.After(m.pollInterval):
		}
	}
}

// CheckResetButtonHeld reports whether the factory-reset control stays
// pressed for the full hold duration. Sampling is periodic; a single
// released sample aborts. Managers with no reset input wired always
// report false.
func (m *Manager) CheckResetButtonHeld(ctx context.Context) bool {
	if m.reset == nil || !m.reset.Pressed() {
		return false
	}

	m.console.Printf("Reset control held - keep holding for factory reset\r\n")

	samples := int(m.resetHold / m.resetSample)
	for i := 0; i < samples; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(m.resetSample):
		}
		if !m.reset.Pressed() {
			m.console.Printf("Reset control released - continuing normal boot\r\n")
			return false
		}
	}

	m.log.Info("reset control held for full window, factory reset requested")
	return true
}

// Bootstrap runs the boot-time configuration sequence and returns the
// record the rest of the agent runs with.
//
// Sequence: factory-reset check, load (cache, backend, defaults),
// redacted summary print, override window, provisioning dialogue when
// interrupted. The sequence never fails; the worst storage outcome is
// a defaults boot.
func (m *Manager) Bootstrap(ctx context.Context) deviceconfig.Record {
	if m.CheckResetButtonHeld(ctx) {
		if err := m.FactoryReset(ctx); err != nil {
			m.log.Error("factory reset failed, continuing boot", "error", err)
		}
	}

	rec := m.LoadActiveConfiguration(ctx)

	m.console.Printf("\r\nActive configuration:\r\n")
	m.console.PrintRecord(rec)

	if m.WaitForUserOverride(ctx, m.overrideWindow) {
		newRec, err := m.PromptAndStore(ctx)
		if err != nil {
			m.log.Warn("provisioned configuration adopted without persistence", "error", err)
		}
		rec = newRec
	} else {
		m.console.Printf("No input - continuing with current configuration\r\n")
	}

	m.setState(StateActive)
	m.log.Info("configuration active",
		"ssid", rec.WiFiSSID,
		"security", rec.WiFiSecurity.String(),
		"broker", rec.MQTTHostname,
		"port", rec.MQTTPort,
		"client_id", rec.MQTTClientID,
		"interval_s", rec.TelemetryInterval,
	)
	m.journalEvent(ctx, "boot_complete", map[string]any{
		"ssid":      rec.WiFiSSID,
		"broker":    rec.MQTTHostname,
		"client_id": rec.MQTTClientID,
	})
	return rec
}
