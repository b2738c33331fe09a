package storage

import "errors"

// Backend outcomes, distinguished with errors.Is. Every non-Ok result a
// backend can produce maps onto exactly one of these sentinels, wrapped
// with detail.
var (
	// ErrNotFound means no record is present at the queried location.
	// Always recoverable by falling back to the next source.
	ErrNotFound = errors.New("storage: no record present")

	// ErrInvalidRecord means a record is present but fails the magic,
	// version, or checksum check. Treated identically to ErrNotFound by
	// callers; a record that fails any check earns no partial trust.
	ErrInvalidRecord = errors.New("storage: record failed integrity check")

	// ErrStorageFault means the underlying medium reported a failure.
	// The attempt is abandoned, never retried automatically.
	ErrStorageFault = errors.New("storage: medium fault")

	// ErrRejectedInvalid is reserved for backends that refuse to persist
	// structurally invalid records. The shipped backends store verbatim
	// and leave validation to the configuration manager.
	ErrRejectedInvalid = errors.New("storage: record rejected as invalid")

	// ErrEraseDisabled means the backend's destructive erase sub-step is
	// switched off. Factory reset treats this as a logical no-op for the
	// durable layer.
	ErrEraseDisabled = errors.New("storage: erase disabled")
)
