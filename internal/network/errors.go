package network

import "errors"

// Sentinel errors for network bring-up.
var (
	// ErrNoSSID indicates the active record names no network.
	ErrNoSSID = errors.New("network: no ssid configured")

	// ErrNoAddress indicates no usable non-loopback address was found.
	ErrNoAddress = errors.New("network: no usable address")

	// ErrSyncTimeout indicates the clock never reached a synced state
	// within the wait window.
	ErrSyncTimeout = errors.New("network: time sync timeout")
)
