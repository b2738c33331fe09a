// Package config handles loading and validating devkitd agent configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields
//   - Default value handling
//
// The agent configuration covers the host-side concerns only: console
// transport, storage backend selection, journal database, MQTT transport
// tuning, the optional InfluxDB mirror and logging. The device identity
// itself (WiFi credentials, broker address, client ID) is provisioned
// interactively and stored as a device record, never in this file.
//
// Security Considerations:
//   - Sensitive values (tokens) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - No runtime overhead after initial load
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Backend)
package config
