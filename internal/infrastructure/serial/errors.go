package serial

import "errors"

// Sentinel errors for serial port operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, serial.ErrOpenFailed) {
//	    // Fall back to the stdio console
//	}
var (
	// ErrNoDevice indicates the console transport is "serial" but no
	// device path was configured.
	ErrNoDevice = errors.New("serial: no device configured")

	// ErrOpenFailed indicates the UART could not be opened.
	ErrOpenFailed = errors.New("serial: open failed")
)
