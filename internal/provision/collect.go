package provision

import (
	"fmt"

	"github.com/arlebrun/devkitd/internal/deviceconfig"
)

// CollectRecord walks every configuration field in a fixed order, showing
// the seed value and keeping it when the operator enters a blank line.
// The collected record is echoed back as a summary before returning.
// Pure prompt orchestration: no storage, no validation.
func (c *Console) CollectRecord(seed deviceconfig.Record) deviceconfig.Record {
	rec := seed

	c.Printf("\r\n=== Device Configuration Setup ===\r\n")
	c.Printf("Press Enter to keep current values\r\n\r\n")

	c.Printf("WiFi configuration:\r\n")
	rec.WiFiSSID = c.promptString("WiFi SSID", seed.WiFiSSID, deviceconfig.MaxSSIDLen, false)
	rec.WiFiPassword = c.promptString("WiFi password", seed.WiFiPassword, deviceconfig.MaxWiFiPasswordLen, true)
	c.Printf("WiFi security modes: 0=open, 1=wep, 2=wpa-psk-tkip, 3=wpa2-psk-aes\r\n")
	rec.WiFiSecurity = deviceconfig.SecurityMode(c.promptInteger("WiFi security mode (0-3)", uint32(seed.WiFiSecurity)))

	c.Printf("MQTT configuration:\r\n")
	rec.MQTTHostname = c.promptString("MQTT broker hostname/IP", seed.MQTTHostname, deviceconfig.MaxHostnameLen, false)
	rec.MQTTPort = uint16(c.promptInteger("MQTT port", uint32(seed.MQTTPort)))
	rec.MQTTClientID = c.promptString("MQTT client ID", seed.MQTTClientID, deviceconfig.MaxClientIDLen, false)
	rec.MQTTUsername = c.promptString("MQTT username (optional)", seed.MQTTUsername, deviceconfig.MaxUsernameLen, false)
	rec.MQTTPassword = c.promptString("MQTT password (optional)", seed.MQTTPassword, deviceconfig.MaxMQTTPasswordLen, true)

	c.Printf("Telemetry configuration:\r\n")
	rec.TelemetryInterval = c.promptInteger("Telemetry interval (seconds)", seed.TelemetryInterval)

	c.Printf("\r\nCollected configuration:\r\n")
	c.PrintRecord(rec)

	return rec
}

// PrintRecord writes a labelled summary of r to the operator console.
// Secrets are masked while masking is enabled.
func (c *Console) PrintRecord(r deviceconfig.Record) {
	if c.mask {
		r = r.Redacted()
	}
	c.Printf("  WiFi SSID:          %s\r\n", r.WiFiSSID)
	c.Printf("  WiFi password:      %s\r\n", r.WiFiPassword)
	c.Printf("  WiFi security:      %s\r\n", r.WiFiSecurity)
	c.Printf("  MQTT hostname:      %s\r\n", r.MQTTHostname)
	c.Printf("  MQTT port:          %d\r\n", r.MQTTPort)
	c.Printf("  MQTT client ID:     %s\r\n", r.MQTTClientID)
	c.Printf("  MQTT username:      %s\r\n", r.MQTTUsername)
	c.Printf("  MQTT password:      %s\r\n", r.MQTTPassword)
	c.Printf("  Telemetry interval: %ds\r\n", r.TelemetryInterval)
}

// promptString shows the current value, then reads a replacement; blank
// input keeps current. Secret fields mask both the shown value and the
// echo.
func (c *Console) promptString(label, current string, maxLen int, secret bool) string {
	shown := current
	if secret && c.mask {
		shown = maskValue(current)
	}
	c.Printf("Current %s: %s\r\n", label, shown)

	var line string
	if secret {
		line = c.ReadSecret(fmt.Sprintf("Enter %s: ", label), maxLen)
	} else {
		line = c.ReadLine(fmt.Sprintf("Enter %s: ", label), maxLen)
	}
	if line == "" {
		return current
	}
	return line
}

// promptInteger shows the current value, then reads a replacement; blank
// input keeps current, non-numeric reads as 0.
func (c *Console) promptInteger(label string, current uint32) uint32 {
	c.Printf("Current %s: %d\r\n", label, current)
	return c.ReadInteger(fmt.Sprintf("Enter %s: ", label), current)
}

// maskValue hides a non-empty secret, keeping "" visible as unset.
func maskValue(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
