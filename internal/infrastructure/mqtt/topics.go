package mqtt

import "fmt"

// Topic prefix for the devkit channel set.
//
// The hierarchy is deliberately flat: every devkit on the bench shares the
// same four topics and distinguishes itself by the "device" field carried in
// each payload. Bench tooling subscribes once and sees the whole fleet.
const (
	// TopicPrefix is the base for all devkit topics.
	// Flat scheme: mxchip/{channel}
	TopicPrefix = "mxchip"
)

// Topics provides builders for devkit MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	telemetryTopic := topics.Telemetry()
//	// Returns: "mxchip/telemetry"
type Topics struct{}

// Telemetry returns the topic for sensor readings published by the agent.
//
// Example: mxchip/telemetry
func (Topics) Telemetry() string {
	return fmt.Sprintf("%s/telemetry", TopicPrefix)
}

// Command returns the topic for operator commands sent to the agent.
//
// Example: mxchip/command
func (Topics) Command() string {
	return fmt.Sprintf("%s/command", TopicPrefix)
}

// LED returns the topic for LED control messages ("ON" / "OFF" payloads).
//
// Example: mxchip/led
func (Topics) LED() string {
	return fmt.Sprintf("%s/led", TopicPrefix)
}

// Status returns the agent availability topic.
// Online and offline payloads are published retained so late subscribers
// see the current state; the broker publishes the LWT here on ungraceful
// disconnect.
//
// Example: mxchip/status
func (Topics) Status() string {
	return fmt.Sprintf("%s/status", TopicPrefix)
}

// All returns a pattern matching every devkit topic.
// Use with caution - this receives ALL traffic.
//
// Pattern: mxchip/#
func (Topics) All() string {
	return fmt.Sprintf("%s/#", TopicPrefix)
}
