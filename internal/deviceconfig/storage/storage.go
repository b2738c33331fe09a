package storage

import "github.com/arlebrun/devkitd/internal/deviceconfig"

// Backend is the persistence strategy for the device configuration
// record. Exactly one backend is active per deployment, chosen at
// startup.
//
// Load returns the stored record, ErrNotFound when nothing is stored,
// ErrInvalidRecord when stored data fails integrity checks, or
// ErrStorageFault when the medium itself failed.
//
// Save persists the record verbatim. Backends do not validate contents;
// the configuration manager does that before calling. Failures surface
// as ErrStorageFault and are never retried here.
//
// Erase clears stored data. Backends whose destructive erase is disabled
// return ErrEraseDisabled instead of touching the medium.
type Backend interface {
	Load() (deviceconfig.Record, error)
	Save(deviceconfig.Record) error
	Erase() error

	// Name identifies the backend in logs and operator output.
	Name() string
}
