package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arlebrun/devkitd/internal/deviceconfig"
	"github.com/arlebrun/devkitd/internal/deviceconfig/storage"
	"github.com/arlebrun/devkitd/internal/infrastructure/logging"
)

// Timing defaults for the boot sequence. Options fields override them,
// mainly so tests can run the same code paths in milliseconds.
const (
	DefaultOverrideWindow = 10 * time.Second
	DefaultPollInterval   = 50 * time.Millisecond
	DefaultResetHold      = 5 * time.Second
	DefaultResetSample    = 100 * time.Millisecond
)

// Console is the operator-facing surface the manager drives during
// boot. *provision.Console satisfies it.
type Console interface {
	Printf(format string, args ...any)
	PrintRecord(r deviceconfig.Record)
	CollectRecord(seed deviceconfig.Record) deviceconfig.Record
	InputPending() bool
	DrainInput()
}

// ResetInput reports the live state of the factory-reset control.
type ResetInput interface {
	Pressed() bool
}

// EventRecorder captures configuration lifecycle events. Implementations
// must swallow their own failures; a journal outage never blocks boot.
type EventRecorder interface {
	RecordEvent(ctx context.Context, event string, details map[string]any)
}

// Options carries the manager's optional collaborators and timing knobs.
type Options struct {
	// Logger for state transitions and fallbacks. Defaults to
	// logging.Default() when nil.
	Logger *logging.Logger

	// Journal records lifecycle events. Nil disables journaling.
	Journal EventRecorder

	// Reset is the factory-reset control. Nil means none is wired, and
	// CheckResetButtonHeld reports false immediately.
	Reset ResetInput

	// OverrideWindow is how long Bootstrap waits for a keypress.
	// Zero takes DefaultOverrideWindow.
	OverrideWindow time.Duration

	// PollInterval is the cadence of InputPending checks while waiting.
	// Zero takes DefaultPollInterval.
	PollInterval time.Duration

	// ResetHold is how long the reset control must stay pressed to
	// trigger a factory reset. Zero takes DefaultResetHold.
	ResetHold time.Duration

	// ResetSample is the cadence of reset control samples.
	// Zero takes DefaultResetSample.
	ResetSample time.Duration
}

// Manager owns the single mutable working copy of the device record and
// mediates every load, store and reset against the storage backend.
// Everything downstream receives value copies, so a record handed out
// at boot stays stable even if the operator reprovisions later.
//
// Thread Safety:
//   - Cache and state mutations are mutex-guarded. The boot sequence
//     itself runs on one goroutine; concurrent readers use Active().
type Manager struct {
	backend storage.Backend
	console Console
	log     *logging.Logger
	journal EventRecorder
	reset   ResetInput

	overrideWindow time.Duration
	pollInterval   time.Duration
	resetHold      time.Duration
	resetSample    time.Duration

	mu          sync.RWMutex
	state       State
	cached      deviceconfig.Record
	have        bool
	initialized bool
}

// New creates a Manager bound to a storage backend and an operator console.
//
// Parameters:
//   - backend: where records are loaded from and saved to
//   - console: operator console for prompts, summaries and countdowns
//   - opts: optional collaborators and timing overrides
//
// Returns:
//   - *Manager: ready for Initialize and Bootstrap
func New(backend storage.Backend, console Console, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}

	m := &Manager{
		backend:        backend,
		console:        console,
		log:            log.With("component", "configmanager"),
		journal:        opts.Journal,
		reset:          opts.Reset,
		overrideWindow: opts.OverrideWindow,
		pollInterval:   opts.PollInterval,
		resetHold:      opts.ResetHold,
		resetSample:    opts.ResetSample,
		state:          StateUninitialized,
	}

	if m.overrideWindow <= 0 {
		m.overrideWindow = DefaultOverrideWindow
	}
	if m.pollInterval <= 0 {
		m.pollInterval = DefaultPollInterval
	}
	if m.resetHold <= 0 {
		m.resetHold = DefaultResetHold
	}
	if m.resetSample <= 0 {
		m.resetSample = DefaultResetSample
	}

	return m
}

// Initialize prepares the backend for use. It is idempotent. Both
// shipped backends need no preparation, so this only records intent.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return nil
	}
	m.initialized = true
	m.mu.Unlock()

	m.log.Info("configuration manager initialized", "backend", m.backend.Name())
	m.journalEvent(ctx, "manager_initialized", map[string]any{
		"backend": m.backend.Name(),
	})
	return nil
}

// State returns the manager's current lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Active returns the session working copy and whether one exists yet.
func (m *Manager) Active() (deviceconfig.Record, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cached, m.have
}

// LoadActiveConfiguration returns the record the device should run with.
// It never fails: a cached record wins, then the backend, then factory
// defaults. Every fallback is announced on the console, logged and
// journaled.
func (m *Manager) LoadActiveConfiguration(ctx context.Context) deviceconfig.Record {
	m.mu.RLock()
	if m.have {
		rec := m.cached
		m.mu.RUnlock()
		m.log.Debug("active configuration served from cache")
		return rec
	}
	m.mu.RUnlock()

	m.setState(StateLoading)

	rec, err := m.backend.Load()
	if err == nil {
		m.adopt(rec, StateLoaded)
		m.console.Printf("Configuration loaded from %s storage\r\n", m.backend.Name())
		m.log.Info("configuration loaded",
			"backend", m.backend.Name(),
			"ssid", rec.WiFiSSID,
			"broker", rec.MQTTHostname,
		)
		m.journalEvent(ctx, "config_loaded", map[string]any{
			"backend": m.backend.Name(),
			"ssid":    rec.WiFiSSID,
		})
		return rec
	}

	reason := "storage_fault"
	switch {
	case errors.Is(err, storage.ErrNotFound):
		reason = "not_found"
		m.console.Printf("No stored configuration found - using defaults\r\n")
		m.log.Info("no stored configuration, using factory defaults",
			"backend", m.backend.Name())
	case errors.Is(err, storage.ErrInvalidRecord):
		reason = "invalid"
		m.console.Printf("Stored configuration failed integrity checks - using defaults\r\n")
		m.log.Warn("stored configuration invalid, using factory defaults",
			"backend", m.backend.Name(), "error", err)
	default:
		m.console.Printf("Storage fault while loading configuration - using defaults\r\n")
		m.log.Error("storage fault on load, using factory defaults",
			"backend", m.backend.Name(), "error", err)
	}

	rec = deviceconfig.FactoryDefaults()
	m.adopt(rec, StateDefaulted)
	m.journalEvent(ctx, "config_defaulted", map[string]any{
		"backend": m.backend.Name(),
		"reason":  reason,
	})
	return rec
}

// PromptAndStore walks the operator through the provisioning dialogue
// and adopts the result.
//
// The collected record is sealed (magic, version, checksum) and then
// validated. An invalid record is never saved, but it still becomes the
// session working copy: the dialogue has no rollback path once the
// operator commits. A valid record is saved; a save failure is reported
// and journaled but does not block adoption.
//
// Returns:
//   - Record: the adopted record
//   - error: the validation failure when the record was not persisted, nil otherwise
func (m *Manager) PromptAndStore(ctx context.Context) (deviceconfig.Record, error) {
	seed := m.LoadActiveConfiguration(ctx)

	rec := m.console.CollectRecord(seed)
	deviceconfig.Seal(&rec)

	if err := deviceconfig.Validate(&rec); err != nil {
		m.console.Printf("Warning: configuration is invalid: %v\r\n", err)
		m.console.Printf("It stays active for this session but was not saved.\r\n")
		m.log.Warn("collected configuration failed validation", "error", err)
		m.journalEvent(ctx, "provision_rejected", map[string]any{
			"error": err.Error(),
		})

		m.adopt(rec, StateOverridden)
		return rec, err
	}

	if err := m.backend.Save(rec); err != nil {
		m.console.Printf("Failed to save configuration: %v\r\n", err)
		m.console.Printf("The new configuration is active for this session only.\r\n")
		m.log.Error("configuration save failed",
			"backend", m.backend.Name(), "error", err)
		m.journalEvent(ctx, "save_failed", map[string]any{
			"backend": m.backend.Name(),
			"error":   err.Error(),
		})
	} else {
		m.console.Printf("Configuration saved to %s storage\r\n", m.backend.Name())
		m.log.Info("configuration saved",
			"backend", m.backend.Name(),
			"ssid", rec.WiFiSSID,
			"broker", rec.MQTTHostname,
			"client_id", rec.MQTTClientID,
		)
		m.journalEvent(ctx, "provisioned", map[string]any{
			"backend":   m.backend.Name(),
			"ssid":      rec.WiFiSSID,
			"broker":    rec.MQTTHostname,
			"client_id": rec.MQTTClientID,
		})
	}

	m.adopt(rec, StateOverridden)
	return rec, nil
}

// FactoryReset clears the stored record and the session cache, so the
// next load falls through to factory defaults.
//
// A backend with erase disabled is treated as a logical no-op: the
// session cache still clears, the stored image stays put.
func (m *Manager) FactoryReset(ctx context.Context) error {
	m.console.Printf("Performing factory reset...\r\n")

	erased := false
	err := m.backend.Erase()
	switch {
	case err == nil:
		erased = true
		m.log.Info("stored configuration erased", "backend", m.backend.Name())
	case errors.Is(err, storage.ErrEraseDisabled):
		m.log.Warn("erase disabled on backend, clearing session cache only",
			"backend", m.backend.Name())
		err = nil
	default:
		m.log.Error("factory reset failed to erase",
			"backend", m.backend.Name(), "error", err)
	}

	m.mu.Lock()
	m.cached = deviceconfig.Record{}
	m.have = false
	m.mu.Unlock()
	m.setState(StateUninitialized)

	m.journalEvent(ctx, "factory_reset", map[string]any{
		"backend": m.backend.Name(),
		"erased":  erased,
	})

	if err != nil {
		return fmt.Errorf("factory reset: %w", err)
	}

	m.console.Printf("Factory reset complete\r\n")
	return nil
}

// adopt installs rec as the session working copy.
func (m *Manager) adopt(rec deviceconfig.Record, next State) {
	m.mu.Lock()
	m.cached = rec
	m.have = true
	prev := m.state
	m.state = next
	m.mu.Unlock()

	if prev != next {
		m.log.Debug("state transition", "from", prev.String(), "to", next.String())
	}
}

func (m *Manager) setState(next State) {
	m.mu.Lock()
	prev := m.state
	m.state = next
	m.mu.Unlock()

	if prev != next {
		m.log.Debug("state transition", "from", prev.String(), "to", next.String())
	}
}

func (m *Manager) journalEvent(ctx context.Context, event string, details map[string]any) {
	if m.journal == nil {
		return
	}
	m.journal.RecordEvent(ctx, event, details)
}
