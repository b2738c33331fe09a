// Package manager owns the device record lifecycle: load from storage,
// fall back to factory defaults, offer the operator a boot-time
// override window, persist what the dialogue collects and perform
// factory resets.
//
// The manager holds the single mutable working copy of the record.
// Everything downstream receives value copies, so a record handed out
// at boot stays stable even if the operator reprovisions later.
//
// Loading never fails. The fallback ladder is session cache, then the
// storage backend, then FactoryDefaults(); integrity failures and
// storage faults demote to the next rung and are reported on the
// console, the structured log and the journal. Validation happens here,
// at the boundary where records enter the system, not inside the
// storage backends.
package manager
