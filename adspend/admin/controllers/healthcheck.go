package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
)

// HealthDto is the body of the application health endpoint
type HealthDto struct {
	Healthy        bool       `json:"healthy"`
	DatasetVersion int64      `json:"datasetVersion"`
	LastLoad       *time.Time `json:"lastLoad"`
}

// HealthCheckController reports whether the dashboard has a dataset to serve
type HealthCheckController struct {
	logger logging.LoggerInterface
	holder *storage.Holder
}

// NewHealthCheckController instantiates a new HealthCheck controller
func NewHealthCheckController(logger logging.LoggerInterface, holder *storage.Holder) *HealthCheckController {
	return &HealthCheckController{logger: logger, holder: holder}
}

// Register the health endpoints
func (c *HealthCheckController) Register(router gin.IRouter) {
	router.GET("/health/application", c.appHealth)
}

func (c *HealthCheckController) appHealth(ctx *gin.Context) {
	snapshot := c.holder.Current()
	if snapshot == nil {
		ctx.JSON(http.StatusInternalServerError, HealthDto{Healthy: false})
		return
	}

	loadedAt := snapshot.LoadedAt
	ctx.JSON(http.StatusOK, HealthDto{
		Healthy:        true,
		DatasetVersion: snapshot.Version,
		LastLoad:       &loadedAt,
	})
}
