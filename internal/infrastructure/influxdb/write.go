package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteSensorMetric writes a single scalar sensor reading to InfluxDB.
//
// This is the primary method for mirroring scalar telemetry (temperature,
// pressure, humidity). The write is non-blocking; data is batched and sent
// asynchronously.
//
// Parameters:
//   - deviceID: Unique identifier for the device (e.g., "devkit-01")
//   - sensor: The reading name (e.g., "temperature", "pressure", "humidity")
//   - value: The numeric value to record
//
// Example:
//
//	client.WriteSensorMetric("devkit-01", "temperature", 23.4)
//	client.WriteSensorMetric("devkit-01", "humidity", 41.2)
func (c *Client) WriteSensorMetric(deviceID string, sensor string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"telemetry",
		map[string]string{
			"device_id": deviceID,
			"sensor":    sensor,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteVectorMetric writes a three-axis sensor reading to InfluxDB.
//
// Used for the motion and magnetic sensors whose readings carry x/y/z
// components (acceleration in mg, magnetic field in mgauss, angular
// rate in mdps).
//
// Parameters:
//   - deviceID: Device identifier
//   - sensor: The reading name (e.g., "acceleration", "magnetic", "gyroscope")
//   - x, y, z: The per-axis values
func (c *Client) WriteVectorMetric(deviceID string, sensor string, x, y, z float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"telemetry",
		map[string]string{
			"device_id": deviceID,
			"sensor":    sensor,
		},
		map[string]interface{}{
			"x": x,
			"y": y,
			"z": z,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("agent_stats",
//	    map[string]string{"host": "bench-01"},
//	    map[string]interface{}{"publish_count": 1042, "uptime_s": 3600})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
