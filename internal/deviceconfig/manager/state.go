package manager

import "fmt"

// State identifies where the manager is in its boot lifecycle.
type State int

// Lifecycle states. Boot flows strictly forward: Uninitialized ->
// Loading -> Loaded or Defaulted -> AwaitingOverride -> Overridden or
// TimedOut -> Active. FactoryReset returns the manager to
// Uninitialized so the next load falls through to defaults.
const (
	StateUninitialized State = iota
	StateLoading
	StateLoaded
	StateDefaulted
	StateAwaitingOverride
	StateOverridden
	StateTimedOut
	StateActive
)

// String returns the lowercase state name used in logs.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateDefaulted:
		return "defaulted"
	case StateAwaitingOverride:
		return "awaiting_override"
	case StateOverridden:
		return "overridden"
	case StateTimedOut:
		return "timed_out"
	case StateActive:
		return "active"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}
