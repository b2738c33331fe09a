package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/arlebrun/devkitd/internal/deviceconfig"
)

// Flash image geometry. The image is divided into fixed-size virtual
// slots so repeated saves rotate across the medium instead of hammering
// one address. Erased flash reads 0xFF.
const (
	// DefaultSlots is the number of virtual record slots when the
	// deployment does not choose its own.
	DefaultSlots = 8

	slotHeaderSize = 8 // sequence uint32 + complement guard uint32
	slotSize       = slotHeaderSize + deviceconfig.RecordSize

	erasedByte    = 0xFF
	emptySequence = 0xFFFFFFFF // header word of erased flash; reserved
)

// FlashOptions configure the durable backend.
type FlashOptions struct {
	// Slots is the number of virtual record slots in the image.
	// DefaultSlots when zero or negative.
	Slots int

	// EraseEnabled permits destructive erase of the whole image. Off by
	// default: sector erase is the highest-risk operation on the real
	// part and stays disabled until a deployment explicitly opts in.
	EraseEnabled bool
}

// Flash is the durable backend: a file-backed flash image holding N
// virtual slots. Save programs the slot after the most recently written
// one with a monotonically increasing sequence number; Load picks the
// highest-sequence slot whose schema words and checksum verify. A torn
// write therefore costs at most the newest record, never the image.
type Flash struct {
	mu           sync.Mutex
	path         string
	slots        int
	eraseEnabled bool
}

// NewFlash returns a flash backend storing its image at path. The image
// file is created on first Save.
func NewFlash(path string, opts FlashOptions) *Flash {
	slots := opts.Slots
	if slots <= 0 {
		slots = DefaultSlots
	}
	return &Flash{
		path:         path,
		slots:        slots,
		eraseEnabled: opts.EraseEnabled,
	}
}

// Load scans every slot and returns the record from the highest-sequence
// slot that verifies. ErrNotFound when all slots are empty,
// ErrInvalidRecord when populated slots exist but none verify,
// ErrStorageFault when the image cannot be read.
func (b *Flash) Load() (deviceconfig.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	img, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return deviceconfig.Record{}, fmt.Errorf("%w: no image at %s", ErrNotFound, b.path)
	}
	if err != nil {
		return deviceconfig.Record{}, fmt.Errorf("%w: read image: %v", ErrStorageFault, err)
	}
	if len(img) != b.imageSize() {
		return deviceconfig.Record{}, fmt.Errorf("%w: image is %d bytes, want %d",
			ErrInvalidRecord, len(img), b.imageSize())
	}

	var (
		best      deviceconfig.Record
		bestSeq   uint32
		found     bool
		populated int
	)
	for i := 0; i < b.slots; i++ {
		off := i * slotSize
		seq := binary.LittleEndian.Uint32(img[off:])
		if seq == emptySequence {
			continue
		}
		populated++

		guard := binary.LittleEndian.Uint32(img[off+4:])
		if guard != ^seq {
			continue // torn header
		}
		rec, err := deviceconfig.Decode(img[off+slotHeaderSize : off+slotSize])
		if err != nil {
			continue
		}
		if rec.SchemaMagic != deviceconfig.Magic || rec.SchemaVersion != deviceconfig.Version {
			continue
		}
		if !deviceconfig.VerifyChecksum(rec) {
			continue
		}
		if !found || seq > bestSeq {
			best = rec
			bestSeq = seq
			found = true
		}
	}

	if found {
		return best, nil
	}
	if populated > 0 {
		return deviceconfig.Record{}, fmt.Errorf("%w: %d populated slot(s), none verified",
			ErrInvalidRecord, populated)
	}
	return deviceconfig.Record{}, fmt.Errorf("%w: image empty", ErrNotFound)
}

// Save programs r into the slot after the most recently written one.
// The record is stored verbatim; validation is the caller's concern.
// A failed program is final for this call; retrying a failed flash
// write risks worsening corruption.
func (b *Flash) Save(r deviceconfig.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	img, err := b.readOrFormatImage()
	if err != nil {
		return err
	}

	target, seq := b.nextSlot(img)

	slot := make([]byte, slotSize)
	binary.LittleEndian.PutUint32(slot[0:], seq)
	binary.LittleEndian.PutUint32(slot[4:], ^seq)
	copy(slot[slotHeaderSize:], deviceconfig.Encode(r))

	f, err := os.OpenFile(b.path, os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("%w: open image: %v", ErrStorageFault, err)
	}
	defer f.Close()

	if _, err := f.WriteAt(slot, int64(target*slotSize)); err != nil {
		return fmt.Errorf("%w: program slot %d: %v", ErrStorageFault, target, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: sync image: %v", ErrStorageFault, err)
	}
	return nil
}

// Erase rewrites the whole image to erased flash. Gated behind
// EraseEnabled; a disabled erase returns ErrEraseDisabled without
// touching the medium. Erasing a missing image is a no-op.
func (b *Flash) Erase() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.eraseEnabled {
		return fmt.Errorf("%w: image at %s kept intact", ErrEraseDisabled, b.path)
	}

	if _, err := os.Stat(b.path); errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("%w: stat image: %v", ErrStorageFault, err)
	}

	if err := os.WriteFile(b.path, erasedImage(b.imageSize()), 0o600); err != nil {
		return fmt.Errorf("%w: erase image: %v", ErrStorageFault, err)
	}
	return nil
}

// Name identifies the backend in logs.
func (b *Flash) Name() string {
	return "flash"
}

// imageSize returns the expected byte size of the image file.
func (b *Flash) imageSize() int {
	return b.slots * slotSize
}

// readOrFormatImage returns the current image bytes, writing a fresh
// erased image first when the file is missing or the wrong size.
func (b *Flash) readOrFormatImage() ([]byte, error) {
	img, err := os.ReadFile(b.path)
	if err == nil && len(img) == b.imageSize() {
		return img, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: read image: %v", ErrStorageFault, err)
	}

	img = erasedImage(b.imageSize())
	if err := os.WriteFile(b.path, img, 0o600); err != nil {
		return nil, fmt.Errorf("%w: format image: %v", ErrStorageFault, err)
	}
	return img, nil
}

// nextSlot picks the slot to program and the sequence number to stamp:
// one past the most recently written slot, wrapping across the image,
// with sequence max+1. Slots with torn headers still count for wear
// purposes; they were programmed once even if the write tore.
func (b *Flash) nextSlot(img []byte) (slot int, seq uint32) {
	newest := -1
	var maxSeq uint32
	for i := 0; i < b.slots; i++ {
		s := binary.LittleEndian.Uint32(img[i*slotSize:])
		if s == emptySequence {
			continue
		}
		if newest == -1 || s > maxSeq {
			newest = i
			maxSeq = s
		}
	}

	if newest == -1 {
		return 0, 1
	}
	next := maxSeq + 1
	if next == emptySequence {
		next = 1 // reserved as the erased marker
	}
	return (newest + 1) % b.slots, next
}

// erasedImage allocates size bytes of erased flash.
func erasedImage(size int) []byte {
	img := make([]byte, size)
	for i := range img {
		img[i] = erasedByte
	}
	return img
}
