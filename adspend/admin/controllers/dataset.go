package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
	adsync "github.com/partyads/adspend-dashboard/adspend/sync"
)

// Reloader forces a dataset synchronization
type Reloader interface {
	SyncAll(ctx context.Context) (*adsync.Result, error)
	SourceName() string
}

// DatasetStatusDto describes the dataset being served
type DatasetStatusDto struct {
	Loaded        bool      `json:"loaded"`
	Version       int64     `json:"version"`
	Source        string    `json:"source"`
	Checksum      string    `json:"checksum"`
	LoadedAt      time.Time `json:"loadedAt"`
	Parties       []string  `json:"parties"`
	MissingColors []string  `json:"missingColors"`
}

// DatasetController exposes the loaded dataset status and a forced reload
type DatasetController struct {
	holder        *storage.Holder
	reloader      Reloader
	reloadTimeout time.Duration
	logger        logging.LoggerInterface
}

// NewDatasetController constructs a dataset controller. reloader may be nil, disabling forced reloads
func NewDatasetController(holder *storage.Holder, reloader Reloader, reloadTimeout time.Duration, logger logging.LoggerInterface) *DatasetController {
	return &DatasetController{holder: holder, reloader: reloader, reloadTimeout: reloadTimeout, logger: logger}
}

// Register mounts the dataset endpoints
func (c *DatasetController) Register(router gin.IRouter) {
	router.GET("/dataset", c.status)
	if c.reloader != nil {
		router.POST("/dataset/reload", c.reload)
	}
}

func (c *DatasetController) status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.dto(c.holder.Current()))
}

func (c *DatasetController) reload(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), c.reloadTimeout)
	defer cancel()

	c.logger.Info("forced dataset reload requested from admin endpoint")
	result, err := c.reloader.SyncAll(reqCtx)
	if err != nil {
		c.logger.Error("forced dataset reload failed: ", err)
		ctx.JSON(http.StatusBadGateway, gin.H{
			"error":   err.Error(),
			"source":  c.reloader.SourceName(),
			"serving": c.dto(c.holder.Current()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"updated": result.Updated, "dataset": c.dto(result.Snapshot)})
}

func (c *DatasetController) dto(snapshot *storage.Snapshot) DatasetStatusDto {
	if snapshot == nil {
		return DatasetStatusDto{Parties: []string{}, MissingColors: []string{}}
	}

	missing := snapshot.Missing
	if missing == nil {
		missing = []string{}
	}
	return DatasetStatusDto{
		Loaded:        true,
		Version:       snapshot.Version,
		Source:        snapshot.Source,
		Checksum:      snapshot.Checksum,
		LoadedAt:      snapshot.LoadedAt,
		Parties:       snapshot.Dataset.Entities(),
		MissingColors: missing,
	}
}
