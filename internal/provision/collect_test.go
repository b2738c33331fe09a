package provision

import (
	"strings"
	"testing"

	"github.com/arlebrun/devkitd/internal/deviceconfig"
)

func seedRecord() deviceconfig.Record {
	return deviceconfig.Record{
		SchemaMagic:       deviceconfig.Magic,
		SchemaVersion:     deviceconfig.Version,
		WiFiSSID:          "old-net",
		WiFiPassword:      "old-secret",
		WiFiSecurity:      deviceconfig.SecurityWPA2AES,
		MQTTHostname:      "old-broker",
		MQTTPort:          1883,
		MQTTClientID:      "old-client",
		MQTTUsername:      "old-user",
		MQTTPassword:      "old-pass",
		TelemetryInterval: 10,
	}
}

func TestCollectRecordOverridesFields(t *testing.T) {
	// Field order: SSID, WiFi password, security mode, hostname, port,
	// client ID, username, MQTT password, interval.
	script := strings.Join([]string{
		"lab-net",
		"hunter2",
		"2",
		"broker.local",
		"8883",
		"bench-01",
		"ops",
		"opspw",
		"45",
	}, "\n") + "\n"

	c, _ := newTestConsole(script)
	got := c.CollectRecord(seedRecord())

	want := deviceconfig.Record{
		SchemaMagic:       deviceconfig.Magic,
		SchemaVersion:     deviceconfig.Version,
		WiFiSSID:          "lab-net",
		WiFiPassword:      "hunter2",
		WiFiSecurity:      deviceconfig.SecurityWPATKIP,
		MQTTHostname:      "broker.local",
		MQTTPort:          8883,
		MQTTClientID:      "bench-01",
		MQTTUsername:      "ops",
		MQTTPassword:      "opspw",
		TelemetryInterval: 45,
	}
	if got != want {
		t.Errorf("CollectRecord() = %+v, want %+v", got, want)
	}
}

func TestCollectRecordBlankKeepsSeed(t *testing.T) {
	script := strings.Repeat("\n", 9)
	c, _ := newTestConsole(script)

	seed := seedRecord()
	if got := c.CollectRecord(seed); got != seed {
		t.Errorf("CollectRecord(all blanks) = %+v, want the seed %+v", got, seed)
	}
}

func TestCollectRecordMixedInput(t *testing.T) {
	// Override only the SSID and the interval; keep everything else.
	script := "new-net\n\n\n\n\n\n\n\n120\n"
	c, _ := newTestConsole(script)

	seed := seedRecord()
	got := c.CollectRecord(seed)

	want := seed
	want.WiFiSSID = "new-net"
	want.TelemetryInterval = 120
	if got != want {
		t.Errorf("CollectRecord() = %+v, want %+v", got, want)
	}
}

func TestCollectRecordMasksSecretsInOutput(t *testing.T) {
	script := strings.Repeat("\n", 9)
	c, port := newTestConsole(script)

	c.CollectRecord(seedRecord())

	out := port.out.String()
	for _, secret := range []string{"old-secret", "old-pass"} {
		if strings.Contains(out, secret) {
			t.Errorf("console output leaked secret %q", secret)
		}
	}
	// Non-secret values are shown in the prompts and summary.
	for _, visible := range []string{"old-net", "old-broker", "old-client"} {
		if !strings.Contains(out, visible) {
			t.Errorf("console output missing %q", visible)
		}
	}
}

func TestCollectRecordSummaryPrinted(t *testing.T) {
	script := strings.Repeat("\n", 9)
	c, port := newTestConsole(script)

	c.CollectRecord(seedRecord())

	out := port.out.String()
	if !strings.Contains(out, "Collected configuration:") {
		t.Errorf("output missing summary header:\n%s", out)
	}
	if !strings.Contains(out, "wpa2-psk-aes") {
		t.Errorf("output missing security mode name:\n%s", out)
	}
}

func TestPrintRecordUnmasked(t *testing.T) {
	c, port := newTestConsole("")
	c.SetMaskSecrets(false)

	c.PrintRecord(seedRecord())

	if !strings.Contains(port.out.String(), "old-secret") {
		t.Error("unmasked PrintRecord() hid the secret")
	}
}
