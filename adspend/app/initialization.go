// Package app wires the dashboard components together and runs them until shutdown.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/splitio/gincache"
	"github.com/splitio/go-toolkit/v5/logging"

	"github.com/partyads/adspend-dashboard/adspend"
	"github.com/partyads/adspend-dashboard/adspend/admin"
	"github.com/partyads/adspend-dashboard/adspend/common"
	"github.com/partyads/adspend-dashboard/adspend/dashboard/conf"
	"github.com/partyads/adspend-dashboard/adspend/dataset"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage"
	"github.com/partyads/adspend-dashboard/adspend/dataset/storage/persistent"
	"github.com/partyads/adspend-dashboard/adspend/log"
	"github.com/partyads/adspend-dashboard/adspend/palette"
	adsync "github.com/partyads/adspend-dashboard/adspend/sync"
	"github.com/partyads/adspend-dashboard/adspend/telemetry"
	"github.com/partyads/adspend-dashboard/adspend/web"
	"github.com/partyads/adspend-dashboard/adspend/web/caching"
)

// Start initializes every component and blocks until the dashboard is shut down
func Start(logger *log.HistoricLoggerWrapper, cfg *conf.Main, stoppables ...common.Stoppable) error {
	chartOptions, err := cfg.ChartOptions()
	if err != nil {
		return common.NewInitError(err, common.ExitInvalidConfiguration)
	}

	colors, parties, err := setupPalette(cfg)
	if err != nil {
		return common.NewInitError(err, common.ExitInvalidConfiguration)
	}

	store, err := persistent.NewBoltStore(cfg.Dataset.PersistentFile, logger)
	if err != nil {
		return common.NewInitError(fmt.Errorf("error instantiating boltdb: %w", err), common.ExitErrorDB)
	}

	metrics := telemetry.NewMetrics()
	holder := storage.NewHolder()

	var cache *gincache.Middleware
	var flusher gincache.CacheFlusher
	if cfg.Server.CacheSize > 0 {
		cache = caching.MakeDashboardCache(int(cfg.Server.CacheSize))
		flusher = cache
	}

	source := dataset.NewSource(cfg.Dataset.Source, cfg.HTTPTimeout())
	synchronizer := adsync.NewSynchronizer(adsync.Options{
		Source:       source,
		Holder:       holder,
		Palette:      colors,
		Persistent:   store,
		CacheFlusher: flusher,
		Recorder:     metrics,
		Logger:       logger,
	})

	if err := initialSync(synchronizer, cfg, logger); err != nil {
		store.Stop(true)
		return err
	}

	// Stoppables are stopped in order: stop feeding new datasets first, then the servers, then storage
	var components []common.Stoppable

	if period := cfg.RefreshPeriod(); period > 0 {
		task := adsync.NewRefreshTask(synchronizer, period, cfg.HTTPTimeout(), logger)
		task.Start()
		components = append(components, task)
	}

	if fileSource, ok := source.(*dataset.FileSource); ok && cfg.Dataset.Watch {
		watcher := adsync.NewWatcher(fileSource.Path(), synchronizer, cfg.HTTPTimeout(), logger)
		if err := watcher.Start(context.Background()); err != nil {
			logger.Warning("could not watch the dataset file, relying on periodic refresh: ", err)
		} else {
			components = append(components, watcher)
		}
	}

	server, err := web.New(&web.Options{
		Logger:       logger,
		Host:         cfg.Server.Host,
		Port:         int(cfg.Server.Port),
		DebugOn:      cfg.Server.Debug,
		Title:        cfg.Charts.Title,
		Version:      adspend.Version,
		Parties:      parties,
		Currency:     cfg.Charts.Currency,
		ChartOptions: chartOptions,
		Holder:       holder,
		Cache:        cache,
		Recorder:     metrics,
	})
	if err != nil {
		stopAll(logger, append(components, store))
		return common.NewInitError(fmt.Errorf("error instantiating dashboard server: %w", err), common.ExitTaskInitialization)
	}
	components = append(components, server)

	// the runtime is needed by the admin server, which is itself a component of the runtime
	adminProxy := &stoppableProxy{}
	components = append(components, adminProxy, store)
	components = append(components, stoppables...)
	runtime := common.NewRuntime(logger, components...)

	adminServer, err := admin.NewServer(&admin.Options{
		Host:          cfg.Admin.Host,
		Port:          int(cfg.Admin.Port),
		Username:      cfg.Admin.Username,
		Password:      cfg.Admin.Password,
		SecureHC:      cfg.Admin.SecureHC,
		Logger:        logger,
		Holder:        holder,
		Reloader:      synchronizer,
		ReloadTimeout: cfg.HTTPTimeout(),
		Runtime:       runtime,
		LogHistory:    logger,
		Metrics:       metrics.Handler(),
	})
	if err != nil {
		stopAll(logger, components)
		return common.NewInitError(fmt.Errorf("error instantiating admin server: %w", err), common.ExitAdminError)
	}
	adminProxy.target = adminServer

	go serve("dashboard", server.Start, runtime, logger)
	go serve("admin", adminServer.Start, runtime, logger)

	if err := runtime.RegisterShutdownHandler(); err != nil {
		logger.Warning("could not register the shutdown handler: ", err)
	}

	logger.Info(fmt.Sprintf("dashboard ready, serving dataset from %s", synchronizer.SourceName()))
	runtime.Block()
	return nil
}

func setupPalette(cfg *conf.Main) (palette.ColorSource, []string, error) {
	parties := cfg.Charts.Parties
	if cfg.Palette.File == "" {
		if len(parties) == 0 {
			parties = palette.DefaultParties()
		}
		return palette.Default(), parties, nil
	}

	file, err := palette.LoadFile(cfg.Palette.File)
	if err != nil {
		return nil, nil, err
	}
	if len(parties) == 0 {
		parties = file.Parties
	}
	return file.Source(), parties, nil
}

// initialSync loads the first dataset, falling back to the last one persisted when the source is unavailable
func initialSync(synchronizer *adsync.Synchronizer, cfg *conf.Main, logger logging.LoggerInterface) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout())
	defer cancel()

	_, err := synchronizer.SyncAll(ctx)
	if err == nil {
		return nil
	}

	logger.Error("could not load the dataset: ", err)
	if _, restoreErr := synchronizer.RestoreFromPersistent(); restoreErr != nil {
		if !errors.Is(restoreErr, adsync.ErrNothingPersisted) {
			logger.Error("could not restore the persisted dataset: ", restoreErr)
		}
		return common.NewInitError(fmt.Errorf("no dataset available: %w", err), common.ExitDatasetUnavailable)
	}

	logger.Warning("serving the last dataset that loaded correctly until the source recovers")
	return nil
}

func serve(name string, start func() error, runtime *common.RuntimeImpl, logger logging.LoggerInterface) {
	if err := start(); err != nil {
		logger.Error(fmt.Sprintf("%s server failed: %s", name, err.Error()))
		runtime.Shutdown()
	}
}

func stopAll(logger logging.LoggerInterface, components []common.Stoppable) {
	for _, component := range components {
		if err := component.Stop(true); err != nil {
			logger.Warning("error stopping component: ", err)
		}
	}
}

type stoppableProxy struct {
	target common.Stoppable
}

func (p *stoppableProxy) Stop(blocking bool) error {
	if p.target == nil {
		return nil
	}
	return p.target.Stop(blocking)
}
