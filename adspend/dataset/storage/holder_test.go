package storage

import (
	"sync"
	"testing"

	"github.com/partyads/adspend-dashboard/adspend/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder(t *testing.T) {
	holder := NewHolder()
	assert.False(t, holder.Loaded())
	assert.Nil(t, holder.Current())
	assert.Nil(t, holder.Dataset())

	ds, err := dataset.Parse([]byte(`{"party-specific-data": {"VVD": {}}}`))
	require.NoError(t, err)

	first := holder.Store(Snapshot{Dataset: ds, Checksum: "abc", Source: "data.json"})
	assert.Equal(t, int64(1), first.Version)
	assert.True(t, holder.Loaded())
	assert.Same(t, ds, holder.Dataset())

	second := holder.Store(Snapshot{Dataset: ds, Checksum: "def", Source: "data.json", Missing: []string{"VVD"}})
	assert.Equal(t, int64(2), second.Version)
	assert.Equal(t, "def", holder.Current().Checksum)
	assert.Equal(t, []string{"VVD"}, holder.Current().Missing)
	assert.Equal(t, int64(1), first.Version)
}

func TestHolderConcurrentAccess(t *testing.T) {
	holder := NewHolder()
	ds, err := dataset.Parse([]byte(`{"party-specific-data": {}}`))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			holder.Store(Snapshot{Dataset: ds})
		}()
		go func() {
			defer wg.Done()
			holder.Current()
		}()
	}
	wg.Wait()
	require.NotNil(t, holder.Current())
	assert.LessOrEqual(t, holder.Current().Version, int64(10))
	assert.Equal(t, int64(11), holder.Store(Snapshot{Dataset: ds}).Version)
}
