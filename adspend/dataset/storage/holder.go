// Package storage keeps the dataset currently served by the dashboard.
package storage

import (
	"sync/atomic"
	"time"

	"github.com/partyads/adspend-dashboard/adspend/dataset"
	"github.com/partyads/adspend-dashboard/adspend/palette"
)

// Snapshot is an immutable view of a loaded dataset version
type Snapshot struct {
	Dataset  *dataset.Dataset
	Version  int64
	Checksum string
	Source   string
	LoadedAt time.Time
	Colors   palette.ColorSource // dataset embedded colors in front of the configured palette
	Missing  []string            // labels without a color in Colors
}

// Holder stores the dataset currently being served. Readers never block writers.
type Holder struct {
	current atomic.Pointer[Snapshot]
	version atomic.Int64
}

// NewHolder constructs an empty holder
func NewHolder() *Holder {
	return &Holder{}
}

// Current returns the snapshot being served, or nil if nothing was loaded yet
func (h *Holder) Current() *Snapshot {
	return h.current.Load()
}

// Dataset returns the dataset being served, or nil if nothing was loaded yet
func (h *Holder) Dataset() *dataset.Dataset {
	if snapshot := h.current.Load(); snapshot != nil {
		return snapshot.Dataset
	}
	return nil
}

// Loaded returns whether a dataset is available
func (h *Holder) Loaded() bool {
	return h.current.Load() != nil
}

// Store swaps in a new dataset and returns the resulting snapshot. Version and load time are assigned here.
func (h *Holder) Store(entry Snapshot) *Snapshot {
	snapshot := entry
	snapshot.Version = h.version.Add(1)
	snapshot.LoadedAt = time.Now()
	h.current.Store(&snapshot)
	return &snapshot
}
