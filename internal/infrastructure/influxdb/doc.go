// Package influxdb provides InfluxDB connectivity for devkitd.
//
// It wraps the official influxdb-client-go v2 library with devkitd-specific
// patterns for connection management, telemetry mirroring, and health
// monitoring.
//
// # Purpose
//
// This package mirrors the readings published on the telemetry topic into
// a time-series store, so bench history survives broker restarts and
// retained-message churn:
//   - Scalar readings (temperature, pressure, humidity)
//   - Three-axis readings (acceleration, magnetic, gyroscope)
//
// The mirror is optional. When the influxdb section of config.yaml is
// disabled, Connect returns ErrDisabled and the agent runs MQTT-only.
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "devkit",
//	    Bucket:  "telemetry",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Mirror readings as they are published
//	client.WriteSensorMetric("devkit-01", "temperature", 23.4)
//	client.WriteVectorMetric("devkit-01", "acceleration", 12.0, -4.0, 1002.0)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// This reduces network overhead for high-frequency telemetry data.
package influxdb
