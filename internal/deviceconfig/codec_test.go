package deviceconfig

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

func sampleRecord() Record {
	r := Record{
		SchemaMagic:       Magic,
		SchemaVersion:     Version,
		WiFiSSID:          "workshop",
		WiFiPassword:      "correct horse battery",
		WiFiSecurity:      SecurityWPA2AES,
		MQTTHostname:      "broker.example.net",
		MQTTPort:          8883,
		MQTTClientID:      "bench-node-07",
		MQTTUsername:      "bench",
		MQTTPassword:      "s3cret",
		TelemetryInterval: 30,
	}
	r.Checksum = RecordChecksum(r)
	return r
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := sampleRecord()
	got, err := Decode(Encode(want))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestEncodeFixedOffsets(t *testing.T) {
	r := sampleRecord()
	img := Encode(r)

	if len(img) != RecordSize {
		t.Fatalf("len(Encode()) = %d, want %d", len(img), RecordSize)
	}
	if got := binary.LittleEndian.Uint32(img[offMagic:]); got != Magic {
		t.Errorf("magic at offset %d = 0x%08X, want 0x%08X", offMagic, got, Magic)
	}
	if got := binary.LittleEndian.Uint16(img[offPort:]); got != r.MQTTPort {
		t.Errorf("port at offset %d = %d, want %d", offPort, got, r.MQTTPort)
	}
	if got := cString(img[offClientID : offClientID+widthClientID]); got != r.MQTTClientID {
		t.Errorf("client id at offset %d = %q, want %q", offClientID, got, r.MQTTClientID)
	}
	if img[offInterval-2] != 0 || img[offInterval-1] != 0 {
		t.Error("alignment pad bytes are not zero")
	}
	if got := binary.LittleEndian.Uint32(img[offInterval:]); got != r.TelemetryInterval {
		t.Errorf("interval at offset %d = %d, want %d", offInterval, got, r.TelemetryInterval)
	}
	if got := binary.LittleEndian.Uint32(img[offChecksum:]); got != r.Checksum {
		t.Errorf("checksum at offset %d = 0x%08X, want 0x%08X", offChecksum, got, r.Checksum)
	}
}

func TestEncodeClampsOverlongStrings(t *testing.T) {
	r := sampleRecord()
	r.WiFiSSID = strings.Repeat("s", 200)
	r.MQTTUsername = strings.Repeat("u", 100)

	got, err := Decode(Encode(r))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.WiFiSSID != strings.Repeat("s", MaxSSIDLen) {
		t.Errorf("decoded ssid = %q, want %d clamped characters", got.WiFiSSID, MaxSSIDLen)
	}
	if got.MQTTUsername != strings.Repeat("u", MaxUsernameLen) {
		t.Errorf("decoded username = %q, want %d clamped characters", got.MQTTUsername, MaxUsernameLen)
	}
}

func TestDecodeTruncatedImage(t *testing.T) {
	_, err := Decode(make([]byte, RecordSize-1))
	if !errors.Is(err, ErrTruncatedImage) {
		t.Errorf("Decode(short buffer) error = %v, want ErrTruncatedImage", err)
	}
}

func TestDecodeZeroedImage(t *testing.T) {
	got, err := Decode(make([]byte, RecordSize))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got != (Record{}) {
		t.Errorf("Decode(zeroed image) = %+v, want zero record", got)
	}
}
