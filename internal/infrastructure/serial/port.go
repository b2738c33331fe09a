package serial

import (
	"fmt"

	bugst "go.bug.st/serial.v1"
)

// defaultBaud matches the devkit's UART console rate.
const defaultBaud = 115200

// Config describes the UART the console runs on.
type Config struct {
	// Device is the port path (e.g. "/dev/ttyUSB0" or "/dev/ttyACM0").
	Device string

	// Baud is the line rate. Default: 115200
	Baud int
}

// Port is an open UART usable as the operator console transport.
//
// It satisfies io.ReadWriteCloser, so the provisioning console runs over
// it unchanged.
type Port struct {
	port   bugst.Port
	device string
}

// Open opens the configured UART in 8N1 framing.
//
// Parameters:
//   - cfg: Device path and line rate from the console section of config.yaml
//
// Returns:
//   - *Port: Open port ready for console use
//   - error: ErrNoDevice if the path is empty, ErrOpenFailed otherwise
func Open(cfg Config) (*Port, error) {
	if cfg.Device == "" {
		return nil, ErrNoDevice
	}

	baud := cfg.Baud
	if baud <= 0 {
		baud = defaultBaud
	}

	mode := &bugst.Mode{
		BaudRate: baud,
	}

	port, err := bugst.Open(cfg.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenFailed, cfg.Device, err)
	}

	return &Port{
		port:   port,
		device: cfg.Device,
	}, nil
}

// Read reads from the UART, blocking until at least one byte arrives.
func (p *Port) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Write writes to the UART.
func (p *Port) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// DrainInput discards any bytes already buffered on the line.
//
// Called once after open so keystrokes typed while the agent was down
// don't bleed into the provisioning prompt.
func (p *Port) DrainInput() error {
	return p.port.ResetInputBuffer()
}

// Device returns the port path this Port was opened on.
func (p *Port) Device() string {
	return p.device
}

// Close releases the UART.
//
// Safe to call on a nil or never-opened Port.
func (p *Port) Close() error {
	if p == nil || p.port == nil {
		return nil
	}
	return p.port.Close()
}
