// Package deviceconfig defines the device configuration record persisted
// across reboots and the pure helpers that operate on it: a fixed-offset
// binary codec, CRC-32 integrity checks, structural validation, and the
// compiled-in defaults fallback.
//
// A Record carries everything the device needs to join a network and reach
// its MQTT broker: WiFi credentials, broker identity, and the telemetry
// cadence. Exactly one record is active at a time; the manager subpackage
// owns the mutable copy and consumers receive value snapshots, so nothing
// in this package requires locking.
//
// Integrity and validity are separate concerns. The checksum (CRC-32 over
// the encoded image, excluding the checksum field itself) detects storage
// corruption and matters only to backends that persist records. Validate
// judges the contents: schema magic and version, required fields, buffer
// bounds, and interval range. A caller reading from durable storage
// combines both checks.
package deviceconfig
