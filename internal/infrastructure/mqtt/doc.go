// Package mqtt provides MQTT client connectivity for the devkit agent.
//
// This package manages:
//   - Connection to the provisioned broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The agent uses MQTT as its only northbound channel: telemetry flows up
// to the broker, commands and LED control flow back down. Bench tooling
// (dashboards, test harnesses, other devkits) subscribes to the same flat
// topic set.
//
//	devkit agent ↔ MQTT Broker ↔ bench subscribers
//
// Broker identity (host, port, client ID, credentials) comes from the
// provisioned device record, not from the agent's YAML. Config in this
// package carries that identity plus connection tuning; cmd/devkitd does
// the mapping so this package stays independent of the provisioning domain.
//
// # Security Considerations
//
//   - TLS is opt-in via agent config (mqtt.tls: true)
//   - Credentials travel in the device record and are masked in output
//   - Anonymous access is only for local bench brokers
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s with jitter
//   - Message throughput: Broker-limited (typically 10K+ msg/sec)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// React to LED control messages
//	err = client.Subscribe(mqtt.Topics{}.LED(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish a telemetry reading
//	client.Publish(mqtt.Topics{}.Telemetry(), reading, 1, true)
package mqtt
