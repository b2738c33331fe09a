package sensors

import (
	"math/rand"
	"sync"
)

// channel holds one random-walk state: current value, step size, bounds.
type channel struct {
	value float64
	step  float64
	min   float64
	max   float64
}

// next advances the walk by a uniform step in [-step, +step], clamped.
func (c *channel) next(r *rand.Rand) float64 {
	c.value += (r.Float64()*2 - 1) * c.step
	if c.value < c.min {
		c.value = c.min
	}
	if c.value > c.max {
		c.value = c.max
	}
	return c.value
}

// Simulated produces plausible readings without hardware.
//
// Each channel performs a bounded random walk around a resting point for
// a devkit sitting on a bench: ambient room climate, gravity on the
// accelerometer Z axis, a mild earth field on the magnetometer and a
// small zero-rate bias on the gyroscope.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Simulated struct {
	mu sync.Mutex
	r  *rand.Rand

	temperature channel
	pressure    channel
	humidity    channel
	accel       [3]channel
	magnetic    [3]channel
	gyro        [3]channel
}

// NewSimulated returns a sampler seeded for reproducibility.
//
// Pass time.Now().UnixNano() for live variety, or a constant to make a
// test deterministic.
func NewSimulated(seed int64) *Simulated {
	return &Simulated{
		r:           rand.New(rand.NewSource(seed)),
		temperature: channel{value: 22.5, step: 0.15, min: 15, max: 35},
		pressure:    channel{value: 1013.25, step: 0.4, min: 980, max: 1040},
		humidity:    channel{value: 45, step: 0.5, min: 20, max: 80},
		accel: [3]channel{
			{value: 12, step: 4, min: -2000, max: 2000},
			{value: -8, step: 4, min: -2000, max: 2000},
			{value: 1002, step: 4, min: -2000, max: 2000},
		},
		magnetic: [3]channel{
			{value: 210, step: 6, min: -1500, max: 1500},
			{value: -340, step: 6, min: -1500, max: 1500},
			{value: 155, step: 6, min: -1500, max: 1500},
		},
		gyro: [3]channel{
			{value: 35, step: 30, min: -5000, max: 5000},
			{value: -105, step: 30, min: -5000, max: 5000},
			{value: 70, step: 30, min: -5000, max: 5000},
		},
	}
}

// Temperature returns degrees Celsius.
func (s *Simulated) Temperature() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.temperature.next(s.r)
}

// Pressure returns hPa.
func (s *Simulated) Pressure() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pressure.next(s.r)
}

// Humidity returns percent relative humidity.
func (s *Simulated) Humidity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.humidity.next(s.r)
}

// Acceleration returns mg per axis. At rest Z carries roughly 1 g.
func (s *Simulated) Acceleration() Vector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Vector{
		X: s.accel[0].next(s.r),
		Y: s.accel[1].next(s.r),
		Z: s.accel[2].next(s.r),
	}
}

// Magnetic returns mgauss per axis.
func (s *Simulated) Magnetic() Vector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Vector{
		X: s.magnetic[0].next(s.r),
		Y: s.magnetic[1].next(s.r),
		Z: s.magnetic[2].next(s.r),
	}
}

// Gyroscope returns mdps per axis.
func (s *Simulated) Gyroscope() Vector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Vector{
		X: s.gyro[0].next(s.r),
		Y: s.gyro[1].next(s.r),
		Z: s.gyro[2].next(s.r),
	}
}
