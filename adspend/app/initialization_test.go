package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/splitio/go-toolkit/v5/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partyads/adspend-dashboard/adspend/common"
	cconf "github.com/partyads/adspend-dashboard/adspend/common/conf"
	"github.com/partyads/adspend-dashboard/adspend/dashboard/conf"
	"github.com/partyads/adspend-dashboard/adspend/dataset"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage/persistent"
	"github.com/partyads/adspend-dashboard/adspend/palette"
	adsync "github.com/partyads/adspend-dashboard/adspend/sync"
)

func defaultConfig(t *testing.T) *conf.Main {
	t.Helper()
	var cfg conf.Main
	require.NoError(t, cconf.PopulateDefaults(&cfg))
	return &cfg
}

func TestSetupPalette(t *testing.T) {
	cfg := defaultConfig(t)
	colors, parties, err := setupPalette(cfg)
	require.NoError(t, err)
	assert.Equal(t, palette.DefaultParties(), parties)
	_, ok := colors.Color("VVD")
	assert.True(t, ok)

	path := filepath.Join(t.TempDir(), "palette.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colors:\n  XYZ: \"#123456\"\nparties: [XYZ]\n"), 0o600))
	cfg.Palette.File = path
	colors, parties, err = setupPalette(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"XYZ"}, parties)
	color, _ := colors.Color("XYZ")
	assert.Equal(t, "#123456", color)

	cfg.Charts.Parties = []string{"ABC"}
	_, parties, err = setupPalette(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC"}, parties)

	cfg.Palette.File = filepath.Join(t.TempDir(), "missing.yaml")
	_, _, err = setupPalette(cfg)
	assert.Error(t, err)
}

func TestInitialSyncFallsBackToPersisted(t *testing.T) {
	logger := logging.NewLogger(nil)
	cfg := defaultConfig(t)

	store, err := persistent.NewBoltStore(persistent.BoltInMemoryMode, logger)
	require.NoError(t, err)
	defer store.Stop(true)

	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"party-specific-data": {"VVD": {}}}`), 0o600))

	newSynchronizer := func(holder *storage.Holder) *adsync.Synchronizer {
		return adsync.NewSynchronizer(adsync.Options{
			Source:     dataset.NewFileSource(path),
			Holder:     holder,
			Palette:    palette.Default(),
			Persistent: store,
			Logger:     logger,
		})
	}

	first := storage.NewHolder()
	require.NoError(t, initialSync(newSynchronizer(first), cfg, logger))
	assert.True(t, first.Loaded())

	// the source breaks: the persisted copy is served
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))
	second := storage.NewHolder()
	require.NoError(t, initialSync(newSynchronizer(second), cfg, logger))
	assert.Equal(t, []string{"VVD"}, second.Dataset().Entities())
}

func TestInitialSyncWithoutAnyDataset(t *testing.T) {
	logger := logging.NewLogger(nil)
	synchronizer := adsync.NewSynchronizer(adsync.Options{
		Source: dataset.NewFileSource(filepath.Join(t.TempDir(), "missing.json")),
		Holder: storage.NewHolder(),
		Logger: logger,
	})

	err := initialSync(synchronizer, defaultConfig(t), logger)
	var initErr *common.InitializationError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, common.ExitDatasetUnavailable, initErr.ExitCode())
}
