package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for devkitd.
// All configuration is loaded from YAML and can be overridden by environment variables.
//
// Note that the MQTT broker identity (hostname, port, client ID,
// credentials) is deliberately absent: it lives in the provisioned
// device record, not in this file. Only transport tuning is here.
type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	Console   ConsoleConfig   `yaml:"console"`
	Storage   StorageConfig   `yaml:"storage"`
	Journal   JournalConfig   `yaml:"journal"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Provision ProvisionConfig `yaml:"provision"`
}

// DeviceConfig identifies the agent instance.
type DeviceConfig struct {
	Name string `yaml:"name"`
}

// ConsoleConfig selects the operator console transport.
type ConsoleConfig struct {
	// Transport is "stdio" or "serial".
	Transport string `yaml:"transport"`

	// SerialPort is the device path for the serial transport
	// (e.g. "/dev/ttyUSB0"). Required when Transport is "serial".
	SerialPort string `yaml:"serial_port"`

	// SerialBaud is the line rate for the serial transport.
	// Default: 115200
	SerialBaud int `yaml:"serial_baud"`

	// MaskSecrets echoes '*' for password fields during provisioning.
	MaskSecrets bool `yaml:"mask_secrets"`

	// OverrideWindow is how long boot waits for a keypress before
	// continuing with the stored configuration (in seconds).
	OverrideWindow int `yaml:"override_window"`
}

// StorageConfig selects where the device record is persisted.
type StorageConfig struct {
	// Backend is "ram" or "flash".
	Backend string `yaml:"backend"`

	// FlashPath is the flash image file for the flash backend.
	FlashPath string `yaml:"flash_path"`

	// FlashSlots is the number of wear-levelling slots in the image.
	// Default: 8
	FlashSlots int `yaml:"flash_slots"`

	// EraseEnabled permits factory reset to clear the flash image.
	EraseEnabled bool `yaml:"erase_enabled"`
}

// JournalConfig contains the provisioning journal (SQLite) settings.
type JournalConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT transport tuning.
type MQTTConfig struct {
	QoS       int                 `yaml:"qos"`
	TLS       bool                `yaml:"tls"`
	KeepAlive int                 `yaml:"keep_alive"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains the optional telemetry mirror sink settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ProvisionConfig controls boot-time provisioning behaviour.
type ProvisionConfig struct {
	// FactoryReset simulates the reset control being held at boot,
	// triggering a factory reset before the record is loaded.
	FactoryReset bool `yaml:"factory_reset"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: DEVKITD_SECTION_KEY
// For example: DEVKITD_STORAGE_FLASH_PATH, DEVKITD_LOGGING_LEVEL
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration with environment variable
// overrides applied. It is used when no config file is given, so the
// agent can boot unattended with nothing on disk.
func Default() (*Config, error) {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Name: "devkit-01",
		},
		Console: ConsoleConfig{
			Transport:      "stdio",
			SerialBaud:     115200,
			MaskSecrets:    true,
			OverrideWindow: 10,
		},
		Storage: StorageConfig{
			Backend:      "flash",
			FlashPath:    "./data/devkit-flash.bin",
			FlashSlots:   8,
			EraseEnabled: true,
		},
		Journal: JournalConfig{
			Enabled:     true,
			Path:        "./data/devkitd.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			QoS:       1,
			KeepAlive: 30,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: DEVKITD_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Console
	if v := os.Getenv("DEVKITD_CONSOLE_TRANSPORT"); v != "" {
		cfg.Console.Transport = v
	}
	if v := os.Getenv("DEVKITD_CONSOLE_SERIAL_PORT"); v != "" {
		cfg.Console.SerialPort = v
	}

	// Storage
	if v := os.Getenv("DEVKITD_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("DEVKITD_STORAGE_FLASH_PATH"); v != "" {
		cfg.Storage.FlashPath = v
	}

	// Journal
	if v := os.Getenv("DEVKITD_JOURNAL_PATH"); v != "" {
		cfg.Journal.Path = v
	}

	// InfluxDB
	if v := os.Getenv("DEVKITD_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("DEVKITD_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("DEVKITD_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Provision
	if v := os.Getenv("DEVKITD_PROVISION_FACTORY_RESET"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Provision.FactoryReset = b
		}
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Console validation
	switch strings.ToLower(c.Console.Transport) {
	case "stdio":
	case "serial":
		if c.Console.SerialPort == "" {
			errs = append(errs, "console.serial_port is required for the serial transport")
		}
		if c.Console.SerialBaud <= 0 {
			errs = append(errs, "console.serial_baud must be positive")
		}
	default:
		errs = append(errs, `console.transport must be "stdio" or "serial"`)
	}
	if c.Console.OverrideWindow < 0 {
		errs = append(errs, "console.override_window must not be negative")
	}

	// Storage validation
	switch strings.ToLower(c.Storage.Backend) {
	case "ram":
	case "flash":
		if c.Storage.FlashPath == "" {
			errs = append(errs, "storage.flash_path is required for the flash backend")
		}
		if c.Storage.FlashSlots < 1 {
			errs = append(errs, "storage.flash_slots must be at least 1")
		}
	default:
		errs = append(errs, `storage.backend must be "ram" or "flash"`)
	}

	// Journal validation
	if c.Journal.Enabled && c.Journal.Path == "" {
		errs = append(errs, "journal.path is required when the journal is enabled")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb is enabled")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetOverrideWindow returns the provisioning override window as a Duration.
func (c *Config) GetOverrideWindow() time.Duration {
	return time.Duration(c.Console.OverrideWindow) * time.Second
}

// GetBusyTimeout returns the journal database busy timeout as a Duration.
func (c *Config) GetBusyTimeout() time.Duration {
	return time.Duration(c.Journal.BusyTimeout) * time.Second
}
