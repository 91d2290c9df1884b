package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/splitio/gincache"
	"github.com/splitio/go-toolkit/v5/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partyads/adspend-dashboard/adspend/charts"
	"github.com/partyads/adspend-dashboard/adspend/dataset"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
	"github.com/partyads/adspend-dashboard/adspend/palette"
	"github.com/partyads/adspend-dashboard/adspend/web/caching"
)

func store(t *testing.T, holder *storage.Holder, raw string) {
	t.Helper()
	ds, err := dataset.Parse([]byte(raw))
	require.NoError(t, err)
	holder.Store(storage.Snapshot{Dataset: ds, Colors: palette.Default()})
}

func newServer(t *testing.T, holder *storage.Holder) (*Server, *gincache.Middleware) {
	t.Helper()
	cache := caching.MakeDashboardCache(100)
	server, err := New(&Options{
		Logger:   logging.NewLogger(nil),
		Host:     "localhost",
		Port:     0,
		Title:    "Political Ads",
		Version:  "test",
		Currency: "€",
		ChartOptions: charts.Options{
			StartDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
			Now:       func() time.Time { return time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC) },
		},
		Holder: holder,
		Cache:  cache,
	})
	require.NoError(t, err)
	return server, cache
}

func serve(handler http.Handler, url string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestServerMiddlewares(t *testing.T) {
	holder := storage.NewHolder()
	store(t, holder, `{"party-specific-data": {"VVD": {}}}`)
	server, _ := newServer(t, holder)

	resp := serve(server.Handler(), "/api/parties", map[string]string{
		"Origin":          "http://other.example",
		"Accept-Encoding": "gzip",
	})
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "gzip", resp.Header().Get("Content-Encoding"))
	assert.NotEmpty(t, resp.Header().Get("X-Request-Id"))

	resp = serve(server.Handler(), "/party?party=VVD", map[string]string{"X-Request-Id": "abc"})
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "abc", resp.Header().Get("X-Request-Id"))
}

func TestServerCacheEvictedOnReload(t *testing.T) {
	holder := storage.NewHolder()
	store(t, holder, `{"party-specific-data": {"VVD": {}}}`)
	server, cache := newServer(t, holder)

	resp := serve(server.Handler(), "/api/parties", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"parties": ["VVD"], "version": 1}`, resp.Body.String())

	store(t, holder, `{"party-specific-data": {"VVD": {}, "CDA": {}}}`)

	// still cached until the dataset surrogate is evicted
	resp = serve(server.Handler(), "/api/parties", nil)
	assert.JSONEq(t, `{"parties": ["VVD"], "version": 1}`, resp.Body.String())

	cache.EvictBySurrogate(caching.DatasetSurrogate)
	resp = serve(server.Handler(), "/api/parties", nil)
	assert.JSONEq(t, `{"parties": ["VVD", "CDA"], "version": 2}`, resp.Body.String())
}

func TestServerErrorsAreNotCached(t *testing.T) {
	holder := storage.NewHolder()
	server, _ := newServer(t, holder)

	assert.Equal(t, http.StatusServiceUnavailable, serve(server.Handler(), "/api/parties", nil).Code)

	store(t, holder, `{"party-specific-data": {"VVD": {}}}`)
	assert.Equal(t, http.StatusOK, serve(server.Handler(), "/api/parties", nil).Code)
}

func TestServerStop(t *testing.T) {
	server, _ := newServer(t, storage.NewHolder())
	done := make(chan error, 1)
	go func() { done <- server.Start() }()

	time.Sleep(50 * time.Millisecond)
	assert.NoError(t, server.Stop(true))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Error("server did not stop")
	}
}
