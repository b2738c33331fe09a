package deviceconfig

import "fmt"

// Schema constants for the persisted record. Magic is a tripwire against
// reading uninitialised or foreign memory, not an integrity check; Version
// is exact-match-or-reject with no migration path.
const (
	Magic   uint32 = 0xDEADBEEF
	Version uint32 = 1
)

// String field capacities. Fields are stored in fixed NUL-terminated
// buffers, so the usable length is one short of the buffer width.
const (
	MaxSSIDLen         = 63
	MaxWiFiPasswordLen = 63
	MaxHostnameLen     = 63
	MaxClientIDLen     = 63
	MaxUsernameLen     = 31
	MaxMQTTPasswordLen = 63
)

// Telemetry interval bounds in seconds.
const (
	MinTelemetryInterval = 1
	MaxTelemetryInterval = 3600
)

// SecurityMode identifies the WiFi security protocol of the stored
// network. Values match the mode word persisted by earlier firmware
// images, so they must not be renumbered.
type SecurityMode uint32

const (
	SecurityOpen    SecurityMode = 0
	SecurityWEP     SecurityMode = 1
	SecurityWPATKIP SecurityMode = 2
	SecurityWPA2AES SecurityMode = 3
)

// String returns a short human-readable name for the security mode.
func (m SecurityMode) String() string {
	switch m {
	case SecurityOpen:
		return "open"
	case SecurityWEP:
		return "wep"
	case SecurityWPATKIP:
		return "wpa-psk-tkip"
	case SecurityWPA2AES:
		return "wpa2-psk-aes"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(m))
	}
}

// Record is the single persisted device configuration. It is a plain
// value type: assignment produces an independent snapshot, which is how
// consumers receive it once the boot sequence completes.
type Record struct {
	// Schema identification
	SchemaMagic   uint32
	SchemaVersion uint32

	// WiFi credentials
	WiFiSSID     string
	WiFiPassword string
	WiFiSecurity SecurityMode

	// MQTT broker identity
	MQTTHostname string
	MQTTPort     uint16
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string

	// TelemetryInterval is the publish cadence in seconds.
	TelemetryInterval uint32

	// Checksum holds the CRC-32 of the encoded record excluding this
	// field. Maintained by Seal; only durable backends inspect it.
	Checksum uint32
}

// Redacted returns a copy of the record with secret fields masked for
// display and logging. Empty secrets stay empty so an operator can see
// that no credential is set.
func (r Record) Redacted() Record {
	cpy := r
	cpy.WiFiPassword = maskSecret(r.WiFiPassword)
	cpy.MQTTPassword = maskSecret(r.MQTTPassword)
	return cpy
}

// maskSecret replaces a non-empty secret with a fixed-width mask so the
// real length is not leaked either.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
