package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/splitio/go-toolkit/v5/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partyads/adspend-dashboard/adspend/common"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
	"github.com/partyads/adspend-dashboard/adspend/telemetry"
)

func request(t *testing.T, server *Server, url string, user string, password string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	if user != "" {
		req.SetBasicAuth(user, password)
	}
	resp := httptest.NewRecorder()
	server.Handler().ServeHTTP(resp, req)
	return resp.Code
}

func TestNewServerRequiresDependencies(t *testing.T) {
	_, err := NewServer(&Options{Logger: logging.NewLogger(nil)})
	assert.Error(t, err)

	_, err = NewServer(&Options{Logger: logging.NewLogger(nil), Holder: storage.NewHolder()})
	assert.Error(t, err)
}

func TestAdminRoutesWithBasicAuth(t *testing.T) {
	logger := logging.NewLogger(nil)
	server, err := NewServer(&Options{
		Host:          "localhost",
		Port:          0,
		Username:      "admin",
		Password:      "secret",
		Logger:        logger,
		Holder:        storage.NewHolder(),
		ReloadTimeout: time.Second,
		Runtime:       common.NewRuntime(logger),
		Metrics:       telemetry.NewMetrics().Handler(),
	})
	require.NoError(t, err)

	// health and metrics are left open for probes and scrapers
	assert.Equal(t, http.StatusInternalServerError, request(t, server, "/health/application", "", ""))
	assert.Equal(t, http.StatusOK, request(t, server, "/metrics", "", ""))

	for _, url := range []string{"/info/ping", "/info/uptime", "/admin/dataset", "/admin/logs"} {
		assert.Equal(t, http.StatusUnauthorized, request(t, server, url, "", ""), url)
		assert.Equal(t, http.StatusUnauthorized, request(t, server, url, "admin", "wrong"), url)
		assert.Equal(t, http.StatusOK, request(t, server, url, "admin", "secret"), url)
	}
}

func TestAdminRoutesWithoutAuth(t *testing.T) {
	logger := logging.NewLogger(nil)
	server, err := NewServer(&Options{
		Logger:  logger,
		Holder:  storage.NewHolder(),
		Runtime: common.NewRuntime(logger),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, request(t, server, "/info/version", "", ""))
	assert.Equal(t, http.StatusOK, request(t, server, "/admin/dataset", "", ""))
	assert.Equal(t, http.StatusNotFound, request(t, server, "/metrics", "", ""))
}

func TestSecureHealthCheck(t *testing.T) {
	logger := logging.NewLogger(nil)
	server, err := NewServer(&Options{
		Username: "admin",
		Password: "secret",
		SecureHC: true,
		Logger:   logger,
		Holder:   storage.NewHolder(),
		Runtime:  common.NewRuntime(logger),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, request(t, server, "/health/application", "", ""))
	assert.Equal(t, http.StatusInternalServerError, request(t, server, "/health/application", "admin", "secret"))
}
