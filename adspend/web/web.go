// Package web serves the dashboard pages and the chart api
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/splitio/gincache"
	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/partyads/adspend-dashboard/adspend/charts"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
	"github.com/partyads/adspend-dashboard/adspend/telemetry"
	"github.com/partyads/adspend-dashboard/adspend/web/controllers"
	"github.com/partyads/adspend-dashboard/adspend/web/middleware"
)

const shutdownTimeout = 10 * time.Second

// Options struct to set options for the dashboard server
type Options struct {
	// Logger to propagate everywhere
	Logger logging.LoggerInterface

	// Address to listen on
	Host string
	Port int

	// Whether to do verbose logging in the gin framework
	DebugOn bool

	// Shown in the navbar and page titles
	Title   string
	Version string

	// Navbar parties, the dataset's parties when empty
	Parties []string

	// Currency symbol of spending charts
	Currency string

	// How charts are built
	ChartOptions charts.Options

	// Dataset being served
	Holder *storage.Holder

	// Response cache, nil disables caching
	Cache *gincache.Middleware

	// used to record local metrics
	Recorder telemetry.Recorder
}

// Server bundles the http server and the controllers behind it
type Server struct {
	server *http.Server
	logger logging.LoggerInterface
}

// New instantiates a new dashboard server
func New(options *Options) (*Server, error) {
	if !options.DebugOn {
		gin.SetMode(gin.ReleaseMode)
	}

	recorder := options.Recorder
	if recorder == nil {
		recorder = telemetry.NoOp{}
	}

	pages, err := controllers.NewPagesController(controllers.PagesOptions{
		Title:        options.Title,
		Version:      options.Version,
		Parties:      options.Parties,
		Currency:     options.Currency,
		ChartOptions: options.ChartOptions,
		Holder:       options.Holder,
		Recorder:     recorder,
		Logger:       options.Logger,
	})
	if err != nil {
		return nil, err
	}
	api := controllers.NewAPIController(options.Holder, options.ChartOptions, recorder, options.Logger)

	var cache gin.HandlerFunc
	if options.Cache != nil {
		cache = options.Cache.Handle
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(setupCorsMiddleware())
	router.Use(middleware.Logger(options.Logger))
	router.Use(telemetry.NewLatencyMiddleware(recorder).Track)
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	pages.Register(router, cache)
	api.Register(router.Group("/api"), cache)

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
	s.logger.Info("dashboard listening on ", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down, waiting for in-flight requests when blocking
func (s *Server) Stop(blocking bool) error {
	if !blocking {
		return s.server.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func setupCorsMiddleware() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		middleware.RequestIDHeader,
	}
	return cors.New(corsConfig)
}
