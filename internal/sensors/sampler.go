// Package sensors provides the readings the telemetry publisher rotates
// through.
//
// The devkit carries four sensor chips: HTS221 (humidity and temperature),
// LPS22HB (barometric pressure), LSM6DSL (accelerometer and gyroscope) and
// LIS2MDL (magnetometer). On the host there is no I2C bus to read, so the
// agent ships a simulated sampler that walks plausible bench values; the
// Sampler interface keeps the publisher indifferent to where readings
// come from.
package sensors

// Vector is a three-axis sample.
type Vector struct {
	X float64
	Y float64
	Z float64
}

// Sampler supplies one reading per call; the publisher decides cadence.
//
// Units follow the devkit's sensor drivers:
//   - Temperature: degrees Celsius (HTS221)
//   - Pressure: hPa (LPS22HB)
//   - Humidity: percent relative humidity (HTS221)
//   - Acceleration: mg (LSM6DSL)
//   - Magnetic: mgauss (LIS2MDL)
//   - Gyroscope: mdps (LSM6DSL)
type Sampler interface {
	Temperature() float64
	Pressure() float64
	Humidity() float64
	Acceleration() Vector
	Magnetic() Vector
	Gyroscope() Vector
}
