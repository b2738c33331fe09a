package deviceconfig

import (
	"strconv"
	"strings"
)

// embeddedDefaults is the compiled-in configuration applied when no usable
// record exists in storage. Line-oriented key=value pairs; '#' starts a
// full-line comment; keys are the lowercase field names. Every required
// field carries a usable development value so a device that has never
// been provisioned still boots into a valid record.
const embeddedDefaults = `# Embedded device configuration.
# Applied when storage holds no valid record.

# WiFi
wifi_ssid=devkit-lab
wifi_password=
wifi_security_mode=3

# MQTT broker
mqtt_hostname=localhost
mqtt_port=1883
mqtt_client_id=mxchip-az3166
mqtt_username=
mqtt_password=

# Telemetry
telemetry_interval_seconds=10
`

// ApplyDefaults overlays key=value lines from text onto r. Blank lines and
// '#' comments are ignored; keys and values are whitespace-trimmed; values
// are taken verbatim to end of line, so they may contain '='. Unknown
// keys, lines without '=', and unparseable numeric values are collected
// in skipped for the caller to log, leaving the target field at its prior
// value. Keys absent from text are not touched at all.
func ApplyDefaults(text string, r *Record) (applied int, skipped []string) {
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			skipped = append(skipped, line)
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "wifi_ssid":
			r.WiFiSSID = value
		case "wifi_password":
			r.WiFiPassword = value
		case "wifi_security_mode":
			n, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				skipped = append(skipped, key)
				continue
			}
			r.WiFiSecurity = SecurityMode(n)
		case "mqtt_hostname":
			r.MQTTHostname = value
		case "mqtt_port":
			n, err := strconv.ParseUint(value, 10, 16)
			if err != nil {
				skipped = append(skipped, key)
				continue
			}
			r.MQTTPort = uint16(n)
		case "mqtt_client_id":
			r.MQTTClientID = value
		case "mqtt_username":
			r.MQTTUsername = value
		case "mqtt_password":
			r.MQTTPassword = value
		case "telemetry_interval_seconds":
			n, err := strconv.ParseUint(value, 10, 32)
			if err != nil {
				skipped = append(skipped, key)
				continue
			}
			r.TelemetryInterval = uint32(n)
		default:
			skipped = append(skipped, key)
			continue
		}
		applied++
	}

	return applied, skipped
}

// FactoryDefaults builds the compiled-in default record: zeroed, schema
// stamped, embedded defaults overlaid, checksum sealed. The result always
// passes Validate so an unattended first boot can proceed on defaults
// alone.
func FactoryDefaults() Record {
	var r Record
	r.SchemaMagic = Magic
	r.SchemaVersion = Version
	ApplyDefaults(embeddedDefaults, &r)
	Seal(&r)
	return r
}
