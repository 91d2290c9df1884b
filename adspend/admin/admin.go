// Package admin serves the operational endpoints of the dashboard: health, info, dataset status and metrics.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/partyads/adspend-dashboard/adspend/admin/controllers"
	"github.com/partyads/adspend-dashboard/adspend/common"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
	"github.com/partyads/adspend-dashboard/adspend/web/middleware"
)

const (
	basepath        = "/admin"
	infopath        = "/info"
	shutdownTimeout = 5 * time.Second
)

// Options encapsulates dependencies & config options for the Admin server
type Options struct {
	Host          string
	Port          int
	Username      string
	Password      string
	SecureHC      bool // protect the health endpoint with basic auth as well
	Logger        logging.LoggerInterface
	Holder        *storage.Holder
	Reloader      controllers.Reloader
	ReloadTimeout time.Duration
	Runtime       common.Runtime
	LogHistory    controllers.LogHistory
	Metrics       http.Handler
}

// Server is the admin http server
type Server struct {
	server *http.Server
	logger logging.LoggerInterface
}

// NewServer instantiates a new admin server
func NewServer(options *Options) (*Server, error) {
	if options.Holder == nil {
		return nil, errors.New("admin server requires a dataset holder")
	}
	if options.Runtime == nil {
		return nil, errors.New("admin server requires a runtime")
	}

	router := gin.New()
	router.Use(gin.Recovery())

	var protected []gin.HandlerFunc
	if options.Username != "" && options.Password != "" {
		protected = append(protected, middleware.HTTPBasicAuth(options.Username, options.Password))
	}

	admin := router.Group(basepath, protected...)
	info := router.Group(infopath, protected...)

	healthRouter := gin.IRouter(router)
	if options.SecureHC {
		healthRouter = router.Group("", protected...)
	}
	controllers.NewHealthCheckController(options.Logger, options.Holder).Register(healthRouter)

	infoController := controllers.NewInfoController(options.Runtime)
	infoController.Register(info)
	infoController.RegisterShutdown(admin)

	controllers.NewDatasetController(options.Holder, options.Reloader, options.ReloadTimeout, options.Logger).Register(admin)

	observability := controllers.NewObservabilityController(options.LogHistory, options.Metrics)
	observability.RegisterLogs(admin)
	observability.RegisterMetrics(router)

	return &Server{
		server: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", options.Host, options.Port),
			Handler: router,
		},
		logger: options.Logger,
	}, nil
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves requests until Stop is called
func (s *Server) Start() error {
	s.logger.Info("admin server listening on ", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down
func (s *Server) Stop(blocking bool) error {
	if !blocking {
		return s.server.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
