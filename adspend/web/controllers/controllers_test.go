package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/splitio/go-toolkit/v5/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partyads/adspend-dashboard/adspend/charts"
	"github.com/partyads/adspend-dashboard/adspend/dashboard"
	"github.com/partyads/adspend-dashboard/adspend/dataset"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
	"github.com/partyads/adspend-dashboard/adspend/palette"
)

var chartOptions = charts.Options{
	StartDate: time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	Now:       func() time.Time { return time.Date(2020, time.January, 3, 0, 0, 0, 0, time.UTC) },
}

func loadedHolder(t *testing.T) *storage.Holder {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "vvd.json"))
	require.NoError(t, err)
	ds, err := dataset.Parse(raw)
	require.NoError(t, err)

	holder := storage.NewHolder()
	holder.Store(storage.Snapshot{Dataset: ds, Colors: palette.Default(), Source: "vvd.json"})
	return holder
}

func setupRouter(t *testing.T, holder *storage.Holder) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pages, err := NewPagesController(PagesOptions{
		Title:        "Political Ads",
		Version:      "test",
		Currency:     "€",
		ChartOptions: chartOptions,
		Holder:       holder,
		Logger:       logging.NewLogger(nil),
	})
	require.NoError(t, err)

	_, router := gin.CreateTestContext(httptest.NewRecorder())
	pages.Register(router, nil)
	NewAPIController(holder, chartOptions, nil, logging.NewLogger(nil)).Register(router.Group("/api"), nil)
	return router
}

func get(router *gin.Engine, url string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, url, nil))
	return resp
}

func TestPartyPagePlaceholders(t *testing.T) {
	router := setupRouter(t, loadedHolder(t))

	resp := get(router, "/party")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "<p>"+dashboard.MessageNoParty+"</p>")

	resp = get(router, "/party?party=PVV")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "<p>"+dashboard.MessagePartyNotFound+"</p>")

	resp = get(router, "/party.html?party=")
	assert.Contains(t, resp.Body.String(), dashboard.MessagePartyNotFound)
}

func TestPartyPage(t *testing.T) {
	router := setupRouter(t, loadedHolder(t))

	resp := get(router, "/party?party=VVD")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header().Get("Content-Type"))

	body := resp.Body.String()
	assert.Contains(t, body, "<h1>VVD Graphs</h1>")
	assert.Contains(t, body, "VVD ran <strong>12</strong> ads and spent an estimated <strong>€1234.50</strong>.")
	assert.Contains(t, body, `<canvas id="vvd-region-spending-line-chart"></canvas>`)
	assert.Contains(t, body, `<canvas id="vvd-gender-impressions-doughnut-chart"></canvas>`)
	assert.Contains(t, body, `id="vvd-age-impressions-line-chart"`)
	assert.Contains(t, body, "no data available")
	assert.Contains(t, body, `href="party?party=CDA"`)
	assert.Contains(t, body, "Average (Estimated) Spending per Region over time (VVD)")
}

func TestOverviewPage(t *testing.T) {
	router := setupRouter(t, loadedHolder(t))

	resp := get(router, "/")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, `<canvas id="ads-per-party-bar-chart"></canvas>`)
	assert.Contains(t, body, `"horizontalBar"`)
}

func TestPagesWithoutDataset(t *testing.T) {
	router := setupRouter(t, storage.NewHolder())

	for _, url := range []string{"/", "/party?party=VVD"} {
		resp := get(router, url)
		assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
		assert.Contains(t, resp.Body.String(), MessageNoDataset)
	}

	assert.Equal(t, http.StatusServiceUnavailable, get(router, "/api/parties").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(router, "/api/charts/bar?metric=ads-per-party").Code)
}

func TestPartiesEndpoint(t *testing.T) {
	router := setupRouter(t, loadedHolder(t))

	resp := get(router, "/api/parties")
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Parties []string `json:"parties"`
		Version int64    `json:"version"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, []string{"VVD", "CDA"}, body.Parties)
	assert.Equal(t, int64(1), body.Version)
}

func TestChartEndpoint(t *testing.T) {
	router := setupRouter(t, loadedHolder(t))

	resp := get(router, "/api/charts/doughnut?metric=spending-per-party&title=Total&currency=%E2%82%AC")
	require.Equal(t, http.StatusOK, resp.Code)

	var config charts.Config
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &config))
	assert.Equal(t, charts.TypeDoughnut, config.Type)
	assert.Equal(t, []string{"VVD", "CDA"}, config.Data.Labels)
	assert.Equal(t, "Total", config.Options.Title.Text)
	assert.Equal(t, "€", config.Options.Currency)

	resp = get(router, "/api/charts/line?metric=spending-per-region-per-date&party=VVD")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &config))
	assert.Equal(t, []string{"2020-01-01", "2020-01-02", "2020-01-03"}, config.Data.Labels)

	cases := map[string]int{
		"/api/charts/pie?metric=ads-per-party":                          http.StatusBadRequest,
		"/api/charts/bar":                                               http.StatusBadRequest,
		"/api/charts/bar?metric=likes-per-party":                        http.StatusNotFound,
		"/api/charts/line?metric=spending-per-region-per-date&party=PVV": http.StatusNotFound,
		"/api/charts/bar?metric=spending-per-date&party=VVD":            http.StatusBadRequest,
	}
	for url, expected := range cases {
		resp := get(router, url)
		assert.Equal(t, expected, resp.Code, url)
		assert.True(t, strings.Contains(resp.Body.String(), `"error"`), url)
	}
}
