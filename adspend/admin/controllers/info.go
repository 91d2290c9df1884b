package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/partyads/adspend-dashboard/adspend"
	"github.com/partyads/adspend-dashboard/adspend/common"
)

const gracefulShutdown = "graceful"

// InfoController contains handlers for system information purposes
type InfoController struct {
	runtime common.Runtime
}

// NewInfoController constructs a new InfoController to be mounted on a gin router
func NewInfoController(runtime common.Runtime) *InfoController {
	return &InfoController{runtime: runtime}
}

// Register mounts the info endpoints
func (c *InfoController) Register(router gin.IRouter) {
	router.GET("/uptime", c.uptime)
	router.GET("/version", c.version)
	router.GET("/ping", c.ping)
}

// RegisterShutdown mounts the endpoint that stops the process
func (c *InfoController) RegisterShutdown(router gin.IRouter) {
	router.GET("/stop/:stopType", c.stopProcess)
}

func (c *InfoController) uptime(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"uptime": c.runtime.Uptime().String()})
}

func (c *InfoController) version(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"version": adspend.Version, "commit": adspend.CommitVersion})
}

func (c *InfoController) ping(ctx *gin.Context) {
	ctx.String(http.StatusOK, "%s", "pong")
}

func (c *InfoController) stopProcess(ctx *gin.Context) {
	stopType := ctx.Param("stopType")
	if stopType != gracefulShutdown {
		ctx.String(http.StatusBadRequest, "Invalid stop type: %s", stopType)
		return
	}

	// Shutdown stops the admin server too, respond first
	go c.runtime.Shutdown()
	ctx.String(http.StatusOK, "%s: %s", "Signal has been sent", stopType)
}
