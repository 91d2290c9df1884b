// Package sync keeps the served dataset up to date with its source.
package sync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	gosync "sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/splitio/gincache"
	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/partyads/adspend-dashboard/adspend/dataset"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage/persistent"
	"github.com/partyads/adspend-dashboard/adspend/palette"
	"github.com/partyads/adspend-dashboard/adspend/telemetry"
	"github.com/partyads/adspend-dashboard/adspend/web/caching"
)

// ErrNothingPersisted is returned when restoring without a previously stored document
var ErrNothingPersisted = errors.New("no persisted dataset available")

// LastGoodStore persists the last document that parsed correctly
type LastGoodStore interface {
	SaveLastGood(doc persistent.StoredDocument) error
	LastGood() (*persistent.StoredDocument, error)
}

// Options bundles the synchronizer dependencies. Persistent, CacheFlusher and Recorder are optional
type Options struct {
	Source       dataset.Source
	Holder       *storage.Holder
	Palette      palette.ColorSource
	Persistent   LastGoodStore
	CacheFlusher gincache.CacheFlusher
	Recorder     telemetry.Recorder
	Logger       logging.LoggerInterface
}

// Result describes the outcome of a synchronization
type Result struct {
	Updated  bool
	Snapshot *storage.Snapshot
}

// Synchronizer fetches the dataset and swaps it in when it changes. Calls are serialized
type Synchronizer struct {
	source       dataset.Source
	holder       *storage.Holder
	palette      palette.ColorSource
	persistent   LastGoodStore
	cacheFlusher gincache.CacheFlusher
	recorder     telemetry.Recorder
	logger       logging.LoggerInterface
	mutex        gosync.Mutex
}

// NewSynchronizer constructs a synchronizer
func NewSynchronizer(opts Options) *Synchronizer {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = telemetry.NoOp{}
	}
	return &Synchronizer{
		source:       opts.Source,
		holder:       opts.Holder,
		palette:      opts.Palette,
		persistent:   opts.Persistent,
		cacheFlusher: opts.CacheFlusher,
		recorder:     recorder,
		logger:       opts.Logger,
	}
}

// SourceName returns the location the dataset is read from
func (s *Synchronizer) SourceName() string {
	return s.source.Name()
}

// SyncAll fetches the dataset and replaces the served one if its contents changed
func (s *Synchronizer) SyncAll(ctx context.Context) (*Result, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	before := time.Now()
	raw, err := s.source.Fetch(ctx)
	if err != nil {
		s.recorder.RecordReload(telemetry.ReloadFailed, time.Since(before))
		return nil, fmt.Errorf("error fetching dataset from %s: %w", s.source.Name(), err)
	}

	checksum := Checksum(raw)
	if current := s.holder.Current(); current != nil && current.Checksum == checksum {
		s.logger.Debug("dataset unchanged, checksum ", checksum)
		s.recorder.RecordReload(telemetry.ReloadUnchanged, time.Since(before))
		return &Result{Updated: false, Snapshot: current}, nil
	}

	snapshot, err := s.install(raw, checksum, s.source.Name())
	if err != nil {
		s.recorder.RecordReload(telemetry.ReloadFailed, time.Since(before))
		return nil, err
	}
	s.recorder.RecordReload(telemetry.ReloadUpdated, time.Since(before))

	if s.persistent != nil {
		err := s.persistent.SaveLastGood(persistent.StoredDocument{
			Raw:      raw,
			Checksum: checksum,
			Source:   s.source.Name(),
			StoredAt: snapshot.LoadedAt,
		})
		if err != nil {
			s.logger.Warning("could not persist dataset: ", err)
		}
	}

	return &Result{Updated: true, Snapshot: snapshot}, nil
}

// RestoreFromPersistent serves the last good document stored on disk
func (s *Synchronizer) RestoreFromPersistent() (*storage.Snapshot, error) {
	if s.persistent == nil {
		return nil, ErrNothingPersisted
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	doc, err := s.persistent.LastGood()
	if err != nil {
		if errors.Is(err, persistent.ErrorBucketNotFound) || errors.Is(err, persistent.ErrorKeyNotFound) {
			return nil, ErrNothingPersisted
		}
		return nil, fmt.Errorf("error reading persisted dataset: %w", err)
	}

	snapshot, err := s.install(doc.Raw, doc.Checksum, doc.Source)
	if err != nil {
		return nil, err
	}
	s.logger.Info(fmt.Sprintf("restored dataset from %s stored at %s", doc.Source, doc.StoredAt.Format(time.RFC3339)))
	return snapshot, nil
}

func (s *Synchronizer) install(raw []byte, checksum string, source string) (*storage.Snapshot, error) {
	ds, err := dataset.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("error parsing dataset from %s: %w", source, err)
	}

	colors := palette.Chain(palette.NewStatic(ds.Colors()), s.palette)
	missing := palette.Missing(colors, ds.Labels())
	if len(missing) > 0 {
		s.logger.Warning(fmt.Sprintf("dataset references %d labels without a color: %v", len(missing), missing))
	}

	snapshot := s.holder.Store(storage.Snapshot{
		Dataset:  ds,
		Checksum: checksum,
		Source:   source,
		Colors:   colors,
		Missing:  missing,
	})

	if s.cacheFlusher != nil {
		s.cacheFlusher.EvictBySurrogate(caching.DatasetSurrogate)
	}
	s.recorder.RecordDataset(snapshot.Version, len(ds.Entities()), len(missing))
	s.logger.Info(fmt.Sprintf("serving dataset version %d from %s (%d parties)", snapshot.Version, source, len(ds.Entities())))
	return snapshot, nil
}

// Checksum identifies a raw document
func Checksum(raw []byte) string {
	return strconv.FormatUint(xxhash.Sum64(raw), 16)
}
