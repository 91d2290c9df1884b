package sync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	cacheMocks "github.com/splitio/gincache/mocks"
	"github.com/splitio/go-toolkit/v5/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/partyads/adspend-dashboard/adspend/dataset"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage/persistent"
	"github.com/partyads/adspend-dashboard/adspend/palette"
	"github.com/partyads/adspend-dashboard/adspend/web/caching"
)

const docV1 = `{"party-specific-data": {"VVD": {}, "XYZ": {}}, "colors": {"XYZ": "#010203"}}`
const docV2 = `{"party-specific-data": {"VVD": {}, "CDA": {}, "NEW": {}}}`

type sourceMock struct {
	fetchCall func(ctx context.Context) ([]byte, error)
}

func (s *sourceMock) Fetch(ctx context.Context) ([]byte, error) { return s.fetchCall(ctx) }
func (s *sourceMock) Name() string                              { return "mock" }

type lastGoodMock struct {
	saved *persistent.StoredDocument
	err   error
}

func (m *lastGoodMock) SaveLastGood(doc persistent.StoredDocument) error {
	m.saved = &doc
	return m.err
}

func (m *lastGoodMock) LastGood() (*persistent.StoredDocument, error) {
	if m.saved == nil {
		return nil, persistent.ErrorKeyNotFound
	}
	return m.saved, nil
}

func TestSyncAllUpdatesOnlyOnChange(t *testing.T) {
	doc := docV1
	src := &sourceMock{fetchCall: func(context.Context) ([]byte, error) { return []byte(doc), nil }}

	evictions := 0
	flusher := &cacheMocks.CacheFlusherMock{
		EvictBySurrogateCall: func(surrogate string) {
			assert.Equal(t, caching.DatasetSurrogate, surrogate)
			evictions++
		},
	}

	holder := storage.NewHolder()
	store := &lastGoodMock{}
	synchronizer := NewSynchronizer(Options{
		Source:       src,
		Holder:       holder,
		Palette:      palette.NewStatic(map[string]string{"VVD": "#ff7709", "CDA": "#007b5f"}),
		Persistent:   store,
		CacheFlusher: flusher,
		Logger:       logging.NewLogger(nil),
	})

	result, err := synchronizer.SyncAll(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, int64(1), result.Snapshot.Version)
	assert.Empty(t, result.Snapshot.Missing)
	color, ok := result.Snapshot.Colors.Color("XYZ")
	assert.True(t, ok)
	assert.Equal(t, "#010203", color)
	assert.Equal(t, 1, evictions)
	require.NotNil(t, store.saved)
	assert.Equal(t, []byte(docV1), store.saved.Raw)

	result, err = synchronizer.SyncAll(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Updated)
	assert.Equal(t, int64(1), holder.Current().Version)
	assert.Equal(t, 1, evictions)

	doc = docV2
	result, err = synchronizer.SyncAll(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Updated)
	assert.Equal(t, []string{"NEW"}, result.Snapshot.Missing)
	assert.Equal(t, []string{"VVD", "CDA", "NEW"}, holder.Dataset().Entities())
	assert.Equal(t, 2, evictions)
}

func TestSyncAllKeepsServingOnFailure(t *testing.T) {
	calls := 0
	src := &sourceMock{fetchCall: func(context.Context) ([]byte, error) {
		calls++
		switch calls {
		case 1:
			return []byte(docV1), nil
		case 2:
			return nil, errors.New("unreachable")
		default:
			return []byte(`{"broken"`), nil
		}
	}}

	holder := storage.NewHolder()
	synchronizer := NewSynchronizer(Options{Source: src, Holder: holder, Logger: logging.NewLogger(nil)})

	_, err := synchronizer.SyncAll(context.Background())
	require.NoError(t, err)

	_, err = synchronizer.SyncAll(context.Background())
	assert.Error(t, err)

	_, err = synchronizer.SyncAll(context.Background())
	assert.ErrorIs(t, err, dataset.ErrInvalidDocument)

	assert.Equal(t, int64(1), holder.Current().Version)
	assert.Equal(t, []string{"VVD", "XYZ"}, holder.Dataset().Entities())
}

func TestRestoreFromPersistent(t *testing.T) {
	failing := &sourceMock{fetchCall: func(context.Context) ([]byte, error) { return nil, errors.New("down") }}
	holder := storage.NewHolder()

	noStore := NewSynchronizer(Options{Source: failing, Holder: holder, Logger: logging.NewLogger(nil)})
	_, err := noStore.RestoreFromPersistent()
	assert.ErrorIs(t, err, ErrNothingPersisted)

	store, err := persistent.NewBoltStore(persistent.BoltInMemoryMode, logging.NewLogger(nil))
	require.NoError(t, err)
	defer store.Stop(true)

	synchronizer := NewSynchronizer(Options{Source: failing, Holder: holder, Persistent: store, Logger: logging.NewLogger(nil)})
	_, err = synchronizer.RestoreFromPersistent()
	assert.ErrorIs(t, err, ErrNothingPersisted)

	require.NoError(t, store.SaveLastGood(persistent.StoredDocument{
		Raw:      []byte(docV2),
		Checksum: Checksum([]byte(docV2)),
		Source:   "https://example.org/data.json",
		StoredAt: time.Now(),
	}))

	snapshot, err := synchronizer.RestoreFromPersistent()
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/data.json", snapshot.Source)
	assert.Equal(t, []string{"VVD", "CDA", "NEW"}, holder.Dataset().Entities())

	// unchanged document is not swapped in again
	same := &sourceMock{fetchCall: func(context.Context) ([]byte, error) { return []byte(docV2), nil }}
	result, err := NewSynchronizer(Options{Source: same, Holder: holder, Logger: logging.NewLogger(nil)}).SyncAll(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Updated)
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, Checksum([]byte(docV1)), Checksum([]byte(docV1)))
	assert.NotEqual(t, Checksum([]byte(docV1)), Checksum([]byte(docV2)))
}

func TestRefreshTask(t *testing.T) {
	defer goleak.VerifyNone(t)

	fetched := make(chan struct{}, 10)
	src := &sourceMock{fetchCall: func(context.Context) ([]byte, error) {
		fetched <- struct{}{}
		return []byte(docV1), nil
	}}

	holder := storage.NewHolder()
	synchronizer := NewSynchronizer(Options{Source: src, Holder: holder, Logger: logging.NewLogger(nil)})
	task := NewRefreshTask(synchronizer, time.Second, time.Second, logging.NewLogger(nil))
	task.Start()

	select {
	case <-fetched:
	case <-time.After(3 * time.Second):
		t.Fatal("refresh task never fetched the dataset")
	}
	task.Stop(true)
	assert.True(t, holder.Loaded())
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(docV1), 0644))

	holder := storage.NewHolder()
	synchronizer := NewSynchronizer(Options{Source: dataset.NewFileSource(path), Holder: holder, Logger: logging.NewLogger(nil)})
	_, err := synchronizer.SyncAll(context.Background())
	require.NoError(t, err)

	watcher := NewWatcher(path, synchronizer, time.Second, logging.NewLogger(nil))
	watcher.debounce = 100 * time.Millisecond
	require.NoError(t, watcher.Start(context.Background()))
	assert.ErrorIs(t, watcher.Start(context.Background()), ErrWatcherRunning)

	// unrelated files are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0644))
	require.NoError(t, os.WriteFile(path, []byte(docV2), 0644))

	select {
	case <-watcher.reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not reload the dataset")
	}

	assert.Equal(t, int64(2), holder.Current().Version)
	assert.Equal(t, []string{"VVD", "CDA", "NEW"}, holder.Dataset().Entities())
	require.NoError(t, watcher.Stop(true))
	assert.NoError(t, watcher.Stop(true))
}
