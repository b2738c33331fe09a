package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/arlebrun/devkitd/internal/deviceconfig"
)

func newTestFlash(t *testing.T, opts FlashOptions) *Flash {
	t.Helper()
	return NewFlash(filepath.Join(t.TempDir(), "config.img"), opts)
}

func TestFlashLoadMissingImage(t *testing.T) {
	b := newTestFlash(t, FlashOptions{})
	if _, err := b.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestFlashRoundTrip(t *testing.T) {
	b := newTestFlash(t, FlashOptions{})
	want := testRecord("cellar")

	if err := b.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	info, err := os.Stat(b.path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size() != int64(b.imageSize()) {
		t.Errorf("image size = %d, want %d", info.Size(), b.imageSize())
	}
}

func TestFlashNewestRecordWins(t *testing.T) {
	b := newTestFlash(t, FlashOptions{Slots: 4})

	for i := 0; i < 3; i++ {
		if err := b.Save(testRecord(fmt.Sprintf("net-%d", i))); err != nil {
			t.Fatalf("Save() #%d error = %v", i, err)
		}
	}
	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.WiFiSSID != "net-2" {
		t.Errorf("Load() ssid = %q, want %q", got.WiFiSSID, "net-2")
	}
}

func TestFlashWearLevelsAcrossSlots(t *testing.T) {
	b := newTestFlash(t, FlashOptions{Slots: 3})

	// More saves than slots: writes must wrap and the newest still wins.
	for i := 0; i < 7; i++ {
		if err := b.Save(testRecord(fmt.Sprintf("net-%d", i))); err != nil {
			t.Fatalf("Save() #%d error = %v", i, err)
		}
	}
	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.WiFiSSID != "net-6" {
		t.Errorf("Load() ssid = %q, want %q", got.WiFiSSID, "net-6")
	}

	img, err := os.ReadFile(b.path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(img) != 3*slotSize {
		t.Fatalf("image grew to %d bytes, want %d", len(img), 3*slotSize)
	}
	// Seven saves across three slots: every slot has been programmed.
	for i := 0; i < 3; i++ {
		if seq := binary.LittleEndian.Uint32(img[i*slotSize:]); seq == emptySequence {
			t.Errorf("slot %d never programmed", i)
		}
	}
}

func TestFlashFallsBackToOlderSlotOnCorruption(t *testing.T) {
	b := newTestFlash(t, FlashOptions{Slots: 4})

	if err := b.Save(testRecord("older")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := b.Save(testRecord("newer")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Flip one SSID byte inside slot 1, the newest record. Its checksum
	// no longer verifies, so Load must fall back to slot 0.
	img, err := os.ReadFile(b.path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	img[slotSize+slotHeaderSize+8] ^= 0x01
	if err := os.WriteFile(b.path, img, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.WiFiSSID != "older" {
		t.Errorf("Load() ssid = %q, want fallback to %q", got.WiFiSSID, "older")
	}
}

func TestFlashAllPopulatedSlotsCorrupt(t *testing.T) {
	b := newTestFlash(t, FlashOptions{Slots: 2})
	if err := b.Save(testRecord("doomed")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	img, err := os.ReadFile(b.path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	img[slotHeaderSize+8] ^= 0x01 // record byte; the header still claims data
	if err := os.WriteFile(b.path, img, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if _, err := b.Load(); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Load() error = %v, want ErrInvalidRecord", err)
	}
}

func TestFlashTruncatedImage(t *testing.T) {
	b := newTestFlash(t, FlashOptions{})
	if err := os.WriteFile(b.path, []byte("short"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := b.Load(); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("Load() error = %v, want ErrInvalidRecord", err)
	}
}

func TestFlashSaveReformatsUnusableImage(t *testing.T) {
	b := newTestFlash(t, FlashOptions{})
	if err := os.WriteFile(b.path, []byte("garbage"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	want := testRecord("fresh")
	if err := b.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestFlashSaveDoesNotValidate(t *testing.T) {
	b := newTestFlash(t, FlashOptions{})

	// Sealed so the checksum verifies, but structurally invalid (empty
	// SSID and hostname). The backend must store and return it verbatim;
	// judging contents is the manager's job.
	var invalid deviceconfig.Record
	deviceconfig.Seal(&invalid)

	if err := b.Save(invalid); err != nil {
		t.Fatalf("Save(invalid) error = %v, want nil", err)
	}
	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != invalid {
		t.Errorf("Load() = %+v, want the invalid record stored verbatim", got)
	}
}

func TestFlashEraseDisabled(t *testing.T) {
	b := newTestFlash(t, FlashOptions{})
	if err := b.Save(testRecord("survivor")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := b.Erase(); !errors.Is(err, ErrEraseDisabled) {
		t.Fatalf("Erase() error = %v, want ErrEraseDisabled", err)
	}
	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.WiFiSSID != "survivor" {
		t.Errorf("record did not survive disabled erase: ssid = %q", got.WiFiSSID)
	}
}

func TestFlashEraseEnabled(t *testing.T) {
	b := newTestFlash(t, FlashOptions{EraseEnabled: true})
	if err := b.Save(testRecord("gone")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := b.Erase(); err != nil {
		t.Fatalf("Erase() error = %v", err)
	}
	if _, err := b.Load(); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after erase error = %v, want ErrNotFound", err)
	}
}

func TestFlashEraseMissingImage(t *testing.T) {
	b := newTestFlash(t, FlashOptions{EraseEnabled: true})
	if err := b.Erase(); err != nil {
		t.Errorf("Erase() with no image = %v, want nil", err)
	}
}
