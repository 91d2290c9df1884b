package log

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/splitio/go-toolkit/v5/logging"
	"github.com/splitio/go-toolkit/v5/testhelpers"
	"github.com/stretchr/testify/assert"
)

func TestHistoricBuffer(t *testing.T) {
	hb := newHistoricBuffer(true, 3)
	hb.record("a")
	hb.record("b")
	hb.record("c")
	testhelpers.AssertStringSliceEquals(t, hb.messages(), []string{"a", "b", "c"}, "slices should match")

	hb.record("d")
	testhelpers.AssertStringSliceEquals(t, hb.messages(), []string{"b", "c", "d"}, "slices should match")
	assert.Equal(t, 3, hb.count)
	assert.Equal(t, 1, hb.start)

	hb.record("e")
	hb.record("f")
	testhelpers.AssertStringSliceEquals(t, hb.messages(), []string{"d", "e", "f"}, "slices should match")
	assert.Equal(t, 0, hb.start)

	hb.record("g")
	testhelpers.AssertStringSliceEquals(t, hb.messages(), []string{"e", "f", "g"}, "slices should match")
	assert.Equal(t, int64(7), hb.totalCount())
}

func TestDisabledBufferOnlyCounts(t *testing.T) {
	hb := newHistoricBuffer(false, 3)
	hb.record("a")
	hb.record("b")
	assert.Empty(t, hb.messages())
	assert.Equal(t, int64(2), hb.totalCount())
}

func TestHistoricLoggerWrapper(t *testing.T) {
	logger := NewHistoricLoggerWrapper(logging.NewLogger(nil), [logLevelCount]bool{true, true, false, false, false}, 2)
	logger.Error("e1")
	logger.Error("e2", " ", 3)
	logger.Error("e3")
	logger.Warning("w1")
	logger.Info("i1")

	assert.Equal(t, []string{"e2 3", "e3"}, logger.Messages(logging.LevelError))
	assert.Equal(t, int64(3), logger.TotalCount(logging.LevelError))
	assert.Equal(t, []string{"w1"}, logger.Messages(logging.LevelWarning))
	assert.Empty(t, logger.Messages(logging.LevelInfo))
	assert.Equal(t, int64(1), logger.TotalCount(logging.LevelInfo))
	assert.Nil(t, logger.Messages(42))

	snapshot := logger.Snapshot()
	assert.Len(t, snapshot, 2)
	assert.Equal(t, int64(3), snapshot["error"].Total)
	assert.Equal(t, []string{"w1"}, snapshot["warning"].Messages)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logging.LevelWarning, ParseLevel("warn"))
	assert.Equal(t, logging.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, logging.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, logging.LevelNone, ParseLevel("none"))
	assert.Equal(t, logging.LevelInfo, ParseLevel("whatever"))
}

func TestSlackWriterFlushesOnStop(t *testing.T) {
	var received int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&received, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	writer := NewSlackWriter(server.URL, "#alerts", "adspend")
	writer.Write([]byte("first"))
	writer.Write([]byte("second"))
	time.Sleep(10 * time.Millisecond)
	assert.Nil(t, writer.Stop(true))
	assert.Equal(t, int64(2), atomic.LoadInt64(&received))
}

func TestSlackPostNowReportsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid_payload"))
	}))
	defer server.Close()

	writer := NewSlackWriter(server.URL, "#alerts", "adspend")
	defer writer.Stop(true)
	err := writer.PostNow([]byte("hello"), nil)
	assert.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid_payload"))
}
