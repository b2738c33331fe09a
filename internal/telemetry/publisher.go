// Package telemetry publishes the devkit's sensor rotation to the broker.
//
// The firmware walks six readings in a fixed order (temperature, pressure,
// humidity, acceleration, magnetic, gyroscope), publishing one per
// interval tick as a small one-field JSON body on the telemetry topic,
// QoS 1 retained. This package reproduces that loop on the host, sampling
// from a sensors.Sampler and optionally mirroring each sample into the
// InfluxDB sink. It also provides the handlers for the inbound led and
// command topics.
package telemetry

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/arlebrun/devkitd/internal/infrastructure/logging"
	"github.com/arlebrun/devkitd/internal/infrastructure/mqtt"
	"github.com/arlebrun/devkitd/internal/sensors"
)

// Rotation states, in firmware order.
const (
	stateTemperature = iota
	statePressure
	stateHumidity
	stateAcceleration
	stateMagnetic
	stateGyroscope
	readingCount
)

// defaultInterval is used when the record's interval is missing.
const defaultInterval = 10 * time.Second

// Broker is the publishing surface the loop needs. *mqtt.Client
// satisfies it.
type Broker interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Mirror receives a copy of every sampled reading. *influxdb.Client
// satisfies it.
type Mirror interface {
	WriteSensorMetric(deviceID string, sensor string, value float64)
	WriteVectorMetric(deviceID string, sensor string, x, y, z float64)
}

// EventRecorder captures bench lifecycle events. Implementations must
// swallow their own failures.
type EventRecorder interface {
	RecordEvent(ctx context.Context, event string, details map[string]any)
}

// Options carries the publisher's optional collaborators.
type Options struct {
	// Mirror receives a copy of each sample. Nil disables mirroring.
	Mirror Mirror

	// Events records publish-failure transitions. Nil disables journaling.
	Events EventRecorder

	// Logger for loop activity. Defaults to logging.Default() when nil.
	Logger *logging.Logger

	// QoS for telemetry publishes. The agent config defaults this to 1,
	// matching the firmware.
	QoS byte
}

// Publisher walks the six-reading rotation, one reading per tick.
//
// Run owns all mutable state; nothing here is safe for concurrent use
// outside that single goroutine.
type Publisher struct {
	broker   Broker
	sampler  sensors.Sampler
	device   string
	interval time.Duration
	topic    string
	qos      byte

	mirror Mirror
	events EventRecorder
	log    *logging.Logger

	state    int
	failures int
}

// New builds a Publisher for the given device identity and interval.
//
// Parameters:
//   - broker: Connected broker client
//   - sampler: Reading source (simulated on a host)
//   - deviceID: Client ID from the active record, sent as the payload's
//     device field
//   - interval: Seconds between readings, from the active record
//   - opts: Optional mirror, journal, logger and QoS
func New(broker Broker, sampler sensors.Sampler, deviceID string, interval time.Duration, opts Options) *Publisher {
	if interval <= 0 {
		interval = defaultInterval
	}

	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}

	return &Publisher{
		broker:   broker,
		sampler:  sampler,
		device:   deviceID,
		interval: interval,
		topic:    mqtt.Topics{}.Telemetry(),
		qos:      opts.QoS,
		mirror:   opts.Mirror,
		events:   opts.Events,
		log:      log.With("component", "telemetry"),
	}
}

// Run drives the rotation until the context ends.
//
// The first reading goes out after one full interval, matching the
// firmware's wait-then-publish loop. Returns nil on a clean stop.
func (p *Publisher) Run(ctx context.Context) error {
	p.log.Info("telemetry loop started",
		"device", p.device,
		"interval", p.interval,
		"topic", p.topic)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("telemetry loop stopped")
			return nil
		case <-ticker.C:
			p.publishNext()
		}
	}
}

// publishNext emits the current reading and advances the rotation.
func (p *Publisher) publishNext() {
	p.publish(p.state)
	p.state = (p.state + 1) % readingCount
}

// publish samples and emits one reading.
//
// The mirror always receives the full-precision sample, broker or not:
// the sink keeps bench history through broker outages. The three-axis
// sensors mirror all axes even where the wire format carries only X.
func (p *Publisher) publish(state int) {
	var (
		name    string
		payload []byte
	)

	switch state {
	case stateTemperature:
		v := p.sampler.Temperature()
		name, payload = "temperature", p.encodeScalar("temperature", v)
		p.mirrorScalar("temperature", v)
	case statePressure:
		v := p.sampler.Pressure()
		name, payload = "pressure", p.encodeScalar("pressure", v)
		p.mirrorScalar("pressure", v)
	case stateHumidity:
		v := p.sampler.Humidity()
		name, payload = "humidity", p.encodeScalar("humidity", v)
		p.mirrorScalar("humidity", v)
	case stateAcceleration:
		vec := p.sampler.Acceleration()
		name, payload = "acceleration", p.encodeScalar("acceleration", vec.X)
		p.mirrorVector("acceleration", vec)
	case stateMagnetic:
		vec := p.sampler.Magnetic()
		name, payload = "magnetic", p.encodeScalar("magnetic", vec.X)
		p.mirrorVector("magnetic", vec)
	case stateGyroscope:
		vec := p.sampler.Gyroscope()
		name, payload = "gyroscope", p.encodeVector("gyroscope", vec)
		p.mirrorVector("gyroscope", vec)
	default:
		return
	}

	if err := p.broker.Publish(p.topic, payload, p.qos, true); err != nil {
		p.failures++
		p.log.Warn("telemetry publish failed",
			"reading", name,
			"consecutive_failures", p.failures,
			"error", err)

		// Journal the transition into failure, not every retry; a broker
		// outage at a 10s interval would otherwise flood the journal.
		if p.failures == 1 && p.events != nil {
			p.events.RecordEvent(context.Background(), "publish_failed", map[string]any{
				"reading": name,
				"error":   err.Error(),
			})
		}
		return
	}

	if p.failures > 0 {
		p.log.Info("telemetry publish recovered",
			"reading", name,
			"after_failures", p.failures)
		p.failures = 0
	}

	p.log.Debug("telemetry published", "reading", name, "payload", string(payload))
}

func (p *Publisher) mirrorScalar(sensor string, v float64) {
	if p.mirror == nil {
		return
	}
	p.mirror.WriteSensorMetric(p.device, sensor, v)
}

func (p *Publisher) mirrorVector(sensor string, vec sensors.Vector) {
	if p.mirror == nil {
		return
	}
	p.mirror.WriteVectorMetric(p.device, sensor, vec.X, vec.Y, vec.Z)
}

// encodeScalar renders the one-field body shared by the scalar readings,
// e.g. {"device": "devkit-01", "temperature": 23.45}.
//
// The body is built by hand rather than with json.Marshal: the wire
// format is a fixed contract with bench subscribers (device field first,
// exactly two decimals), and map marshalling would reorder the keys.
func (p *Publisher) encodeScalar(name string, v float64) []byte {
	return []byte(fmt.Sprintf(`{"device": %q, %q: %.2f}`, p.device, name, trunc2(v)))
}

// encodeVector renders the nested x/y/z body used by the gyroscope.
func (p *Publisher) encodeVector(name string, vec sensors.Vector) []byte {
	return []byte(fmt.Sprintf(`{"device": %q, %q: {"x": %.2f, "y": %.2f, "z": %.2f}}`,
		p.device, name, trunc2(vec.X), trunc2(vec.Y), trunc2(vec.Z)))
}

// trunc2 truncates to two decimals toward zero, the way the firmware's
// integer cast does, normalising -0.
func trunc2(v float64) float64 {
	t := math.Trunc(v*100) / 100
	if t == 0 {
		return 0
	}
	return t
}
