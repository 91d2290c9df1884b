package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/partyads/adspend-dashboard/adspend/charts"
	"github.com/partyads/adspend-dashboard/adspend/dataset"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
	"github.com/partyads/adspend-dashboard/adspend/telemetry"
	"github.com/partyads/adspend-dashboard/adspend/web/caching"
)

// APIController serves chart configurations as json
type APIController struct {
	holder       *storage.Holder
	chartOptions charts.Options
	recorder     telemetry.Recorder
	logger       logging.LoggerInterface
}

// NewAPIController constructs a new chart api controller
func NewAPIController(holder *storage.Holder, chartOptions charts.Options, recorder telemetry.Recorder, logger logging.LoggerInterface) *APIController {
	if recorder == nil {
		recorder = telemetry.NoOp{}
	}
	return &APIController{holder: holder, chartOptions: chartOptions, recorder: recorder, logger: logger}
}

// Register mounts the api endpoints, cache is optional
func (c *APIController) Register(router gin.IRouter, cache gin.HandlerFunc) {
	chain := func(name string, handler gin.HandlerFunc) []gin.HandlerFunc {
		handlers := []gin.HandlerFunc{telemetry.Endpoint(name)}
		if cache != nil {
			handlers = append(handlers, cache)
		}
		return append(handlers, handler)
	}

	router.GET("/parties", chain("api-parties", c.parties)...)
	router.GET("/charts/:kind", chain("api-charts", c.chart)...)
}

func (c *APIController) parties(ctx *gin.Context) {
	snapshot := c.holder.Current()
	if snapshot == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": MessageNoDataset})
		return
	}

	caching.TagDataset(ctx)
	ctx.JSON(http.StatusOK, gin.H{
		"parties": snapshot.Dataset.Entities(),
		"version": snapshot.Version,
	})
}

func (c *APIController) chart(ctx *gin.Context) {
	kind, err := charts.ParseKind(ctx.Param("kind"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := charts.Request{
		Title:     ctx.Query("title"),
		MetricKey: ctx.Query("metric"),
		Entity:    ctx.Query("party"),
		Currency:  ctx.Query("currency"),
	}
	if req.MetricKey == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "metric is required"})
		return
	}

	snapshot := c.holder.Current()
	if snapshot == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": MessageNoDataset})
		return
	}

	config, err := builderFor(snapshot, c.chartOptions).Build(kind, snapshot.Dataset, req)
	c.recorder.RecordChartBuild(string(kind), err)
	if err != nil {
		ctx.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	caching.TagDataset(ctx)
	ctx.JSON(http.StatusOK, config)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, charts.ErrEntityNotFound), errors.Is(err, charts.ErrMetricNotFound):
		return http.StatusNotFound
	case errors.Is(err, dataset.ErrInvalidMetric), errors.Is(err, charts.ErrUnknownKind):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
