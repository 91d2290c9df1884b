package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPBasicAuth middleware to check basic credentials
func HTTPBasicAuth(username string, password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)

		rUsername, rPassword, authOK := c.Request.BasicAuth()
		if !authOK ||
			subtle.ConstantTimeCompare([]byte(rUsername), []byte(username)) != 1 ||
			subtle.ConstantTimeCompare([]byte(rPassword), []byte(password)) != 1 {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}
