// Package middleware holds the gin middlewares shared by the dashboard and admin servers
package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/splitio/go-toolkit/v5/logging"
)

// RequestIDHeader carries the id assigned to each request
const RequestIDHeader = "X-Request-Id"

// Logger middleware to log HTTP requests at Debug level
func Logger(logger logging.LoggerInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()

		logger.Debug(fmt.Sprintf("%s |%3d| %v | %s | %s | %s",
			c.Request.Method,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
			path,
			requestID))
	}
}
