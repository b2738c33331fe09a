package deviceconfig

import "hash/crc32"

// Checksum computes the CRC-32 of data: polynomial 0xEDB88320, reflected,
// initial value and final XOR 0xFFFFFFFF. Pure function; identical bytes
// always produce identical digests.
func Checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// RecordChecksum computes the checksum a sealed record should carry: the
// CRC-32 of the encoded image excluding the checksum field itself.
func RecordChecksum(r Record) uint32 {
	img := Encode(r)
	return Checksum(img[:offChecksum])
}

// Seal stamps r with the current schema magic and version and refreshes
// its checksum. Call before handing a record to a storage backend.
func Seal(r *Record) {
	r.SchemaMagic = Magic
	r.SchemaVersion = Version
	r.Checksum = RecordChecksum(*r)
}

// VerifyChecksum reports whether the record's stored checksum matches the
// one recomputed from its current contents.
func VerifyChecksum(r Record) bool {
	return r.Checksum == RecordChecksum(r)
}
