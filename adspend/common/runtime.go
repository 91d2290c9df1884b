package common

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/splitio/go-toolkit/v5/logging"
	"github.com/splitio/go-toolkit/v5/sync"
)

// ErrShutdownAlreadyRegistered is returned when trying to register the shutdown handler more than once
var ErrShutdownAlreadyRegistered = errors.New("shutdown handler already scheduled")

// Runtime defines the interface
type Runtime interface {
	Uptime() time.Duration
	Shutdown()
}

// Stoppable is implemented by every long running component that must be stopped on shutdown
type Stoppable interface {
	Stop(blocking bool) error
}

// RuntimeImpl provides an implementation for the Runtime interface
type RuntimeImpl struct {
	startup            time.Time
	shutdownRegistered *sync.AtomicBool
	shutdownStarted    *sync.AtomicBool
	logger             logging.LoggerInterface
	components         []Stoppable
	blocker            chan struct{}
}

// NewRuntime constructs a RuntimeImpl object
func NewRuntime(logger logging.LoggerInterface, components ...Stoppable) *RuntimeImpl {
	return &RuntimeImpl{
		startup:            time.Now(),
		logger:             logger,
		components:         components,
		blocker:            make(chan struct{}, 1),
		shutdownRegistered: sync.NewAtomicBool(false),
		shutdownStarted:    sync.NewAtomicBool(false),
	}
}

// RegisterShutdownHandler installs a shutdown handler that will be triggered when a SIGTERM/SIGQUIT/SIGINT is received
func (r *RuntimeImpl) RegisterShutdownHandler() error {
	if !r.shutdownRegistered.TestAndSet() {
		return ErrShutdownAlreadyRegistered
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-signals
		r.Shutdown()
	}()

	return nil
}

// Uptime returns how long the dashboard has been running
func (r *RuntimeImpl) Uptime() time.Duration {
	return time.Since(r.startup)
}

// Shutdown stops every registered component and releases whoever is blocked in Block()
func (r *RuntimeImpl) Shutdown() {
	if !r.shutdownStarted.TestAndSet() {
		return
	}

	r.logger.Info("\n\n * Starting graceful shutdown")
	r.logger.Info(" * Waiting goroutines stop")
	for _, component := range r.components {
		if err := component.Stop(true); err != nil {
			r.logger.Warning("error stopping component: ", err)
		}
	}
	r.logger.Info(" * Shutdown complete - see you soon!")
	r.blocker <- struct{}{}
}

// Block puts the current goroutine on hold until Shutdown is complete
func (r *RuntimeImpl) Block() {
	<-r.blocker
}

var _ Runtime = (*RuntimeImpl)(nil)
