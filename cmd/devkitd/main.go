// Command devkitd runs the DevKit bench agent, a host-side stand-in for
// the MXChip AZ3166 firmware. It walks the same boot order as the board:
// console and device configuration first, then network join and clock
// sync, then the broker session, control subscriptions and the telemetry
// loop. SIGINT or SIGTERM stops the loop and closes infrastructure in
// reverse order.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/arlebrun/devkitd/migrations"

	"github.com/arlebrun/devkitd/internal/board"
	"github.com/arlebrun/devkitd/internal/deviceconfig"
	"github.com/arlebrun/devkitd/internal/deviceconfig/manager"
	"github.com/arlebrun/devkitd/internal/deviceconfig/storage"
	"github.com/arlebrun/devkitd/internal/infrastructure/config"
	"github.com/arlebrun/devkitd/internal/infrastructure/database"
	"github.com/arlebrun/devkitd/internal/infrastructure/influxdb"
	"github.com/arlebrun/devkitd/internal/infrastructure/logging"
	"github.com/arlebrun/devkitd/internal/infrastructure/mqtt"
	"github.com/arlebrun/devkitd/internal/infrastructure/serial"
	"github.com/arlebrun/devkitd/internal/journal"
	"github.com/arlebrun/devkitd/internal/network"
	"github.com/arlebrun/devkitd/internal/provision"
	"github.com/arlebrun/devkitd/internal/sensors"
	"github.com/arlebrun/devkitd/internal/telemetry"
)

// Build information, injected via ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	defaultConfigPath = "configs/config.yaml"
	configEnvVar      = "DEVKITD_CONFIG"

	// clockSyncTimeout bounds the wait for a plausible system clock,
	// the host analogue of the board's bounded SNTP retry loop.
	clockSyncTimeout = 30 * time.Second

	healthCheckTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "devkitd: %v\n", err)
		os.Exit(1)
	}
}

// run performs the boot sequence and blocks in the telemetry loop until
// the context is cancelled. Infrastructure closes via defers in reverse
// dependency order.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting devkitd", "version", version, "commit", commit, "built", date)

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration ready",
		"device", cfg.Device.Name,
		"console", cfg.Console.Transport,
		"storage", cfg.Storage.Backend,
	)

	// Operator console. The board brings its screen and UART up before
	// anything else so the provisioning dialogue has somewhere to live.
	console, closeConsole, err := buildConsole(cfg, log)
	if err != nil {
		return fmt.Errorf("opening console: %w", err)
	}
	defer closeConsole()

	// Journal is optional; the agent runs identically without it, minus
	// the audit trail.
	var (
		db          *database.DB
		cfgEvents   manager.EventRecorder
		benchEvents telemetry.EventRecorder
	)
	if cfg.Journal.Enabled {
		db, err = database.Open(database.Config{
			Path:        cfg.Journal.Path,
			WALMode:     cfg.Journal.WALMode,
			BusyTimeout: cfg.Journal.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("opening journal database: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("failed to close journal database", "error", err)
			}
		}()

		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrating journal database: %w", err)
		}

		repo := journal.NewSQLiteRepository(db.DB)
		cfgEvents = journal.NewRecorder(repo, log, "configmanager")
		benchEvents = journal.NewRecorder(repo, log, "telemetry")
		log.Info("journal open", "path", db.Path())
	} else {
		log.Info("journal disabled")
	}

	backend, err := buildBackend(cfg)
	if err != nil {
		return err
	}

	var reset manager.ResetInput = board.NoResetInput{}
	if cfg.Provision.FactoryReset {
		reset = board.StaticResetInput{Held: true}
	}

	mgr := manager.New(backend, console, manager.Options{
		Logger:         log,
		Journal:        cfgEvents,
		Reset:          reset,
		OverrideWindow: cfg.GetOverrideWindow(),
	})
	if err := mgr.Initialize(ctx); err != nil {
		return fmt.Errorf("initializing configuration manager: %w", err)
	}

	// Blocks for the override window; returns the record the rest of
	// the agent runs with.
	record := mgr.Bootstrap(ctx)

	connector := network.NewHostConnector(log)
	if _, err := connector.Join(ctx, network.Credentials{
		SSID:     record.WiFiSSID,
		Password: record.WiFiPassword,
		Mode:     record.WiFiSecurity.String(),
	}); err != nil {
		return fmt.Errorf("joining network: %w", err)
	}

	syncCtx, cancelSync := context.WithTimeout(ctx, clockSyncTimeout)
	err = network.SystemClock{}.WaitSync(syncCtx)
	cancelSync()
	if err != nil {
		return fmt.Errorf("waiting for clock sync: %w", err)
	}

	mqttClient, err := mqtt.Connect(brokerConfig(cfg, record))
	if err != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", err)
	}
	defer func() {
		if err := mqttClient.Close(); err != nil {
			log.Error("failed to close MQTT client", "error", err)
		}
	}()
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("mqtt connected", "broker", record.MQTTHostname, "port", record.MQTTPort)
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("mqtt connection lost", "error", err)
	})

	led := board.NewLoggingLED(log)
	topics := mqtt.Topics{}
	qos := byte(cfg.MQTT.QoS)

	if err := mqttClient.Subscribe(topics.LED(), qos, telemetry.NewLEDHandler(led, log)); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topics.LED(), err)
	}
	if err := mqttClient.Subscribe(topics.Command(), qos, telemetry.NewCommandHandler(log, benchEvents)); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topics.Command(), err)
	}
	log.Info("control topics subscribed", "led", topics.LED(), "command", topics.Command())

	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			if err := influxClient.Close(); err != nil {
				log.Error("failed to close InfluxDB client", "error", err)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("influxdb write error", "error", err)
		})
		log.Info("telemetry mirror connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	} else {
		log.Info("telemetry mirror disabled")
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("startup health check: %w", err)
	}

	// A nil *influxdb.Client must stay a nil Mirror interface, so the
	// assignment is guarded.
	var mirror telemetry.Mirror
	if influxClient != nil {
		mirror = influxClient
	}

	publisher := telemetry.New(
		mqttClient,
		sensors.NewSimulated(time.Now().UnixNano()),
		record.MQTTClientID,
		time.Duration(record.TelemetryInterval)*time.Second,
		telemetry.Options{
			Mirror: mirror,
			Events: benchEvents,
			Logger: log,
			QoS:    qos,
		},
	)

	log.Info("initialisation complete, telemetry loop running",
		"device", record.MQTTClientID,
		"interval_s", record.TelemetryInterval,
	)

	if err := publisher.Run(ctx); err != nil {
		return fmt.Errorf("telemetry loop: %w", err)
	}

	log.Info("shutdown signal received, stopping devkitd")
	return nil
}

// getConfigPath returns the config file location, preferring the
// DEVKITD_CONFIG environment variable over the default path.
func getConfigPath() string {
	if path := os.Getenv(configEnvVar); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadConfig reads the agent configuration. A missing file at the
// default path falls back to built-in defaults so the agent boots
// unattended on a fresh host; an explicitly configured path that fails
// to load is an error.
func loadConfig(log *logging.Logger) (*config.Config, error) {
	path := getConfigPath()
	cfg, err := config.Load(path)
	if err == nil {
		log.Info("configuration loaded", "path", path)
		return cfg, nil
	}
	if os.Getenv(configEnvVar) == "" && errors.Is(err, fs.ErrNotExist) {
		log.Warn("config file not found, using built-in defaults", "path", path)
		return config.Default()
	}
	return nil, fmt.Errorf("loading config from %s: %w", path, err)
}

// buildConsole attaches the operator console on the configured
// transport and returns it with its cleanup function.
func buildConsole(cfg *config.Config, log *logging.Logger) (*provision.Console, func(), error) {
	if strings.ToLower(cfg.Console.Transport) == "serial" {
		port, err := serial.Open(serial.Config{
			Device: cfg.Console.SerialPort,
			Baud:   cfg.Console.SerialBaud,
		})
		if err != nil {
			return nil, nil, err
		}
		port.DrainInput()

		console := provision.NewConsole(port)
		console.SetMaskSecrets(cfg.Console.MaskSecrets)
		log.Info("console attached", "transport", "serial", "device", port.Device(), "baud", cfg.Console.SerialBaud)

		closeFn := func() {
			if err := port.Close(); err != nil {
				log.Error("failed to close serial port", "error", err)
			}
		}
		return console, closeFn, nil
	}

	console := provision.NewConsole(stdioConsole{os.Stdin, os.Stdout})
	console.SetMaskSecrets(cfg.Console.MaskSecrets)
	log.Info("console attached", "transport", "stdio")
	return console, func() {}, nil
}

// buildBackend selects the configuration storage backend.
func buildBackend(cfg *config.Config) (storage.Backend, error) {
	switch strings.ToLower(cfg.Storage.Backend) {
	case "flash":
		return storage.NewFlash(cfg.Storage.FlashPath, storage.FlashOptions{
			Slots:        cfg.Storage.FlashSlots,
			EraseEnabled: cfg.Storage.EraseEnabled,
		}), nil
	case "ram":
		return storage.NewRAM(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// brokerConfig merges the provisioned broker identity from the device
// record with agent tuning from config.yaml.
func brokerConfig(cfg *config.Config, rec deviceconfig.Record) mqtt.Config {
	return mqtt.Config{
		Host:     rec.MQTTHostname,
		Port:     rec.MQTTPort,
		ClientID: rec.MQTTClientID,
		Username: rec.MQTTUsername,
		Password: rec.MQTTPassword,

		TLS:       cfg.MQTT.TLS,
		QoS:       cfg.MQTT.QoS,
		KeepAlive: time.Duration(cfg.MQTT.KeepAlive) * time.Second,

		ReconnectInitialDelay: time.Duration(cfg.MQTT.Reconnect.InitialDelay) * time.Second,
		ReconnectMaxDelay:     time.Duration(cfg.MQTT.Reconnect.MaxDelay) * time.Second,
	}
}

// healthCheck verifies infrastructure connectivity after startup.
// The journal database and the InfluxDB mirror are optional and
// checked only when wired.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	healthCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if db != nil {
		if err := db.HealthCheck(healthCtx); err != nil {
			return fmt.Errorf("database health check: %w", err)
		}
	}
	if err := mqttClient.HealthCheck(healthCtx); err != nil {
		return fmt.Errorf("mqtt health check: %w", err)
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(healthCtx); err != nil {
			return fmt.Errorf("influxdb health check: %w", err)
		}
	}
	return nil
}

// stdioConsole joins the process's standard streams into the single
// io.ReadWriter the provisioning console expects.
type stdioConsole struct {
	io.Reader
	io.Writer
}
