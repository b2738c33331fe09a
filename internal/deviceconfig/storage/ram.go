package storage

import (
	"sync"

	"github.com/arlebrun/devkitd/internal/deviceconfig"
)

// RAM is the volatile backend: a single in-memory record slot. Save
// always succeeds and is visible to later Loads within the same process
// run; nothing survives a restart.
type RAM struct {
	mu       sync.Mutex
	record   deviceconfig.Record
	occupied bool
}

// NewRAM returns an empty volatile backend.
func NewRAM() *RAM {
	return &RAM{}
}

// Load returns the record saved earlier this session, or ErrNotFound.
func (b *RAM) Load() (deviceconfig.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.occupied {
		return deviceconfig.Record{}, ErrNotFound
	}
	return b.record, nil
}

// Save stores a copy of r in the slot. It cannot fail.
func (b *RAM) Save(r deviceconfig.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record = r
	b.occupied = true
	return nil
}

// Erase clears the slot.
func (b *RAM) Erase() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record = deviceconfig.Record{}
	b.occupied = false
	return nil
}

// Name identifies the backend in logs.
func (b *RAM) Name() string {
	return "ram"
}
