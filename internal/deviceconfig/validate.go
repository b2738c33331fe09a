package deviceconfig

import (
	"fmt"
	"strings"
)

// Validate checks the structural invariants of a record: schema magic and
// version match, required fields are non-empty, string fields fit their
// buffers, and the telemetry interval is within range. All failures are
// collected into a single error so an operator sees the full list at
// once.
//
// The checksum is deliberately not inspected: integrity is a storage
// concern, verified by the backends that persist records.
func Validate(r *Record) error {
	var errs []string

	if r.SchemaMagic != Magic {
		errs = append(errs, fmt.Sprintf("schema magic 0x%08X, want 0x%08X", r.SchemaMagic, Magic))
	}
	if r.SchemaVersion != Version {
		errs = append(errs, fmt.Sprintf("schema version %d, want %d", r.SchemaVersion, Version))
	}

	if r.WiFiSSID == "" {
		errs = append(errs, "wifi ssid is required")
	} else if len(r.WiFiSSID) > MaxSSIDLen {
		errs = append(errs, fmt.Sprintf("wifi ssid exceeds %d characters", MaxSSIDLen))
	}
	if len(r.WiFiPassword) > MaxWiFiPasswordLen {
		errs = append(errs, fmt.Sprintf("wifi password exceeds %d characters", MaxWiFiPasswordLen))
	}

	if r.MQTTHostname == "" {
		errs = append(errs, "mqtt hostname is required")
	} else if len(r.MQTTHostname) > MaxHostnameLen {
		errs = append(errs, fmt.Sprintf("mqtt hostname exceeds %d characters", MaxHostnameLen))
	}
	if r.MQTTClientID == "" {
		errs = append(errs, "mqtt client id is required")
	} else if len(r.MQTTClientID) > MaxClientIDLen {
		errs = append(errs, fmt.Sprintf("mqtt client id exceeds %d characters", MaxClientIDLen))
	}
	if len(r.MQTTUsername) > MaxUsernameLen {
		errs = append(errs, fmt.Sprintf("mqtt username exceeds %d characters", MaxUsernameLen))
	}
	if len(r.MQTTPassword) > MaxMQTTPasswordLen {
		errs = append(errs, fmt.Sprintf("mqtt password exceeds %d characters", MaxMQTTPasswordLen))
	}

	if r.TelemetryInterval < MinTelemetryInterval || r.TelemetryInterval > MaxTelemetryInterval {
		errs = append(errs, fmt.Sprintf("telemetry interval %d out of range [%d,%d]",
			r.TelemetryInterval, MinTelemetryInterval, MaxTelemetryInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, strings.Join(errs, "; "))
	}
	return nil
}

// IsValid reports whether r passes Validate. Use Validate directly when
// the failure detail matters.
func IsValid(r *Record) bool {
	return Validate(r) == nil
}
