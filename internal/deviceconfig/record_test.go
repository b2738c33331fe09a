package deviceconfig

import "testing"

func TestSecurityModeString(t *testing.T) {
	tests := []struct {
		mode SecurityMode
		want string
	}{
		{SecurityOpen, "open"},
		{SecurityWEP, "wep"},
		{SecurityWPATKIP, "wpa-psk-tkip"},
		{SecurityWPA2AES, "wpa2-psk-aes"},
		{SecurityMode(7), "unknown(7)"},
	}

	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("SecurityMode(%d).String() = %q, want %q", uint32(tt.mode), got, tt.want)
		}
	}
}

func TestRedacted(t *testing.T) {
	r := sampleRecord()
	red := r.Redacted()

	if red.WiFiPassword == r.WiFiPassword {
		t.Error("Redacted() left wifi password in clear text")
	}
	if red.MQTTPassword == r.MQTTPassword {
		t.Error("Redacted() left mqtt password in clear text")
	}
	if red.WiFiSSID != r.WiFiSSID || red.MQTTHostname != r.MQTTHostname {
		t.Error("Redacted() changed non-secret fields")
	}

	// The original must not be touched.
	if r.WiFiPassword != "correct horse battery" {
		t.Errorf("source record mutated: %q", r.WiFiPassword)
	}

	// Empty secrets stay empty so the operator can tell nothing is set.
	var blank Record
	if got := blank.Redacted(); got.WiFiPassword != "" || got.MQTTPassword != "" {
		t.Errorf("Redacted() masked empty secrets: %+v", got)
	}
}
