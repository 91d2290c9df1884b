package telemetry

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecording(t *testing.T) {
	m := NewMetrics()

	m.RecordChartBuild("bar", nil)
	m.RecordChartBuild("bar", nil)
	m.RecordChartBuild("line", errors.New("boom"))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.chartBuilds.WithLabelValues("bar", BuildOk)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chartBuilds.WithLabelValues("line", BuildError)))

	m.RecordReload(ReloadUpdated, time.Millisecond)
	m.RecordReload(ReloadUnchanged, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reloads.WithLabelValues(ReloadUpdated)))
	assert.Greater(t, testutil.ToFloat64(m.lastReload), 0.0)

	m.RecordDataset(3, 13, 2)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.datasetVersion))
	assert.Equal(t, 13.0, testutil.ToFloat64(m.datasetEntities))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.missingColors))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.RecordReload(ReloadFailed, time.Second)

	resp := httptest.NewRecorder()
	m.Handler().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(body), `adspend_dataset_reloads_total{outcome="failed"} 1`))
}

func TestLatencyMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	resp := httptest.NewRecorder()
	_, router := gin.CreateTestContext(resp)
	router.Use(NewLatencyMiddleware(m).Track)
	router.GET("/tagged", Endpoint("tagged"), func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/untagged", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/tagged", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/untagged", nil))

	assert.Equal(t, 1, testutil.CollectAndCount(m.latencies))
}
