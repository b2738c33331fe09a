package deviceconfig

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Encoded image layout. Offsets mirror the struct persisted by earlier
// firmware images: little-endian words, fixed NUL-terminated string
// buffers, and two alignment pad bytes before the telemetry interval.
const (
	offMagic        = 0
	offVersion      = 4
	offSSID         = 8
	offWiFiPassword = 72
	offSecurity     = 136
	offHostname     = 140
	offPort         = 204
	offClientID     = 206
	offUsername     = 270
	offMQTTPassword = 302
	offInterval     = 368
	offChecksum     = 372

	// RecordSize is the size of an encoded Record in bytes.
	RecordSize = 376
)

// String buffer widths within the image (capacity plus NUL terminator).
const (
	widthSSID         = MaxSSIDLen + 1
	widthWiFiPassword = MaxWiFiPasswordLen + 1
	widthHostname     = MaxHostnameLen + 1
	widthClientID     = MaxClientIDLen + 1
	widthUsername     = MaxUsernameLen + 1
	widthMQTTPassword = MaxMQTTPasswordLen + 1
)

// Encode serialises r into its fixed-offset binary image. Strings longer
// than their field capacity are clamped so the buffer always keeps a NUL
// terminator. Unused buffer bytes and the alignment pad stay zero.
func Encode(r Record) []byte {
	img := make([]byte, RecordSize)

	binary.LittleEndian.PutUint32(img[offMagic:], r.SchemaMagic)
	binary.LittleEndian.PutUint32(img[offVersion:], r.SchemaVersion)
	putString(img[offSSID:offSSID+widthSSID], r.WiFiSSID)
	putString(img[offWiFiPassword:offWiFiPassword+widthWiFiPassword], r.WiFiPassword)
	binary.LittleEndian.PutUint32(img[offSecurity:], uint32(r.WiFiSecurity))
	putString(img[offHostname:offHostname+widthHostname], r.MQTTHostname)
	binary.LittleEndian.PutUint16(img[offPort:], r.MQTTPort)
	putString(img[offClientID:offClientID+widthClientID], r.MQTTClientID)
	putString(img[offUsername:offUsername+widthUsername], r.MQTTUsername)
	putString(img[offMQTTPassword:offMQTTPassword+widthMQTTPassword], r.MQTTPassword)
	binary.LittleEndian.PutUint32(img[offInterval:], r.TelemetryInterval)
	binary.LittleEndian.PutUint32(img[offChecksum:], r.Checksum)

	return img
}

// Decode parses a binary image produced by Encode, or read back from a
// storage backend, into a Record. It checks length only; callers combine
// VerifyChecksum and Validate to judge the record itself.
func Decode(data []byte) (Record, error) {
	if len(data) < RecordSize {
		return Record{}, fmt.Errorf("%w: got %d bytes, need %d", ErrTruncatedImage, len(data), RecordSize)
	}

	var r Record
	r.SchemaMagic = binary.LittleEndian.Uint32(data[offMagic:])
	r.SchemaVersion = binary.LittleEndian.Uint32(data[offVersion:])
	r.WiFiSSID = cString(data[offSSID : offSSID+widthSSID])
	r.WiFiPassword = cString(data[offWiFiPassword : offWiFiPassword+widthWiFiPassword])
	r.WiFiSecurity = SecurityMode(binary.LittleEndian.Uint32(data[offSecurity:]))
	r.MQTTHostname = cString(data[offHostname : offHostname+widthHostname])
	r.MQTTPort = binary.LittleEndian.Uint16(data[offPort:])
	r.MQTTClientID = cString(data[offClientID : offClientID+widthClientID])
	r.MQTTUsername = cString(data[offUsername : offUsername+widthUsername])
	r.MQTTPassword = cString(data[offMQTTPassword : offMQTTPassword+widthMQTTPassword])
	r.TelemetryInterval = binary.LittleEndian.Uint32(data[offInterval:])
	r.Checksum = binary.LittleEndian.Uint32(data[offChecksum:])

	return r, nil
}

// putString copies s into a fixed buffer, clamping to capacity minus one
// so the final byte is always a NUL terminator.
func putString(buf []byte, s string) {
	max := len(buf) - 1
	if len(s) > max {
		s = s[:max]
	}
	copy(buf, s)
}

// cString returns the bytes of buf up to the first NUL.
func cString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}
