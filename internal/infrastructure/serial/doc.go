// Package serial provides UART access for the devkitd operator console.
//
// When the console section of config.yaml selects the serial transport,
// the agent opens a real port and runs provisioning over it exactly as it
// runs over stdio, so a bench USB-serial adapter behaves like the devkit's
// own UART console.
//
// # Usage
//
//	port, err := serial.Open(serial.Config{
//	    Device: cfg.Console.SerialPort,
//	    Baud:   cfg.Console.SerialBaud,
//	})
//	if err != nil {
//	    return err
//	}
//	defer port.Close()
//
//	console := provision.NewConsole(port)
//
// # Framing
//
// The port always opens 8N1; only the baud rate is configurable, matching
// the devkit firmware's console settings.
package serial
