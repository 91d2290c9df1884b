package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
)

// EndpointKey is used to set the endpoint for latency tracker within the request handler
const EndpointKey = "ep"

// LatencyMiddleware is meant to be used for capturing endpoint latencies
type LatencyMiddleware struct {
	tracker Recorder
}

// NewLatencyMiddleware instantiates a new latency tracking middleware
func NewLatencyMiddleware(tracker Recorder) *LatencyMiddleware {
	return &LatencyMiddleware{tracker: tracker}
}

// Track is the function to be invoked for every request being handled
func (m *LatencyMiddleware) Track(c *gin.Context) {
	before := time.Now()
	c.Next()
	if endpoint := c.GetString(EndpointKey); endpoint != "" {
		m.tracker.RecordEndpointLatency(endpoint, time.Since(before))
	}
}

// Endpoint returns a handler that tags the request with an endpoint name
func Endpoint(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(EndpointKey, name)
	}
}
