// Package storage provides the persistence strategies for the device
// configuration record.
//
// A Backend is selected once at startup and hides the durability
// characteristics of the medium behind a uniform Load/Save/Erase
// contract:
//
//   - RAM: an in-memory slot. Fast, always writable, gone on restart.
//     The safe choice on hardware whose flash cannot be written while a
//     radio coexistence image occupies adjacent sectors.
//   - Flash: a file-backed flash image with EEPROM-style wear leveling
//     across virtual slots. Durable across restarts; destructive erase is
//     gated behind an explicit opt-in because sector erase is the single
//     most dangerous operation on the real part.
//
// Backends never judge record contents on Save. Validation happens once,
// at the manager boundary, so a diagnostic dump of whatever was collected
// is always possible and the persistence layer stays policy-free. Load is
// stricter: a durable backend only returns records whose schema words and
// checksum verify, and reports everything else as ErrInvalidRecord or
// ErrNotFound so the caller can fall back cleanly.
package storage
