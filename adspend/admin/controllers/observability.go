package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/partyads/adspend-dashboard/adspend/log"
)

// LogHistory is implemented by loggers that keep their last messages around
type LogHistory interface {
	Snapshot() map[string]log.LevelHistory
}

// ObservabilityController exposes buffered log messages and the prometheus metrics
type ObservabilityController struct {
	history LogHistory
	metrics http.Handler
}

// NewObservabilityController constructs the controller, any of the arguments may be nil
func NewObservabilityController(history LogHistory, metrics http.Handler) *ObservabilityController {
	return &ObservabilityController{history: history, metrics: metrics}
}

// RegisterLogs mounts the log history endpoint
func (c *ObservabilityController) RegisterLogs(router gin.IRouter) {
	router.GET("/logs", c.logs)
}

// RegisterMetrics mounts the prometheus endpoint
func (c *ObservabilityController) RegisterMetrics(router gin.IRouter) {
	if c.metrics != nil {
		router.GET("/metrics", gin.WrapH(c.metrics))
	}
}

func (c *ObservabilityController) logs(ctx *gin.Context) {
	if c.history == nil {
		ctx.JSON(http.StatusOK, gin.H{})
		return
	}
	ctx.JSON(http.StatusOK, c.history.Snapshot())
}
