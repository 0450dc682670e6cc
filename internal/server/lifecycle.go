// Package server manages the lifecycle of the simulator's long-running
// services: ordered startup, signal handling and reverse-order shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is a long-running component. Run blocks until ctx is cancelled or
// the service finishes on its own.
type Service interface {
	Run(ctx context.Context) error
}

// ServiceFunc adapts a function into the Service interface.
type ServiceFunc func(ctx context.Context) error

// Run calls f.
func (f ServiceFunc) Run(ctx context.Context) error { return f(ctx) }

// Lifecycle runs services concurrently and stops them in reverse order of
// registration, so a service added first outlives every service added after it.
type Lifecycle struct {
	logger   *zap.Logger
	services []namedService
	mu       sync.Mutex
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a named service.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

type running struct {
	cancel context.CancelFunc
	done   chan error
}

// Run starts every service and blocks until SIGINT or SIGTERM arrives, ctx is
// cancelled, or any service returns. It then cancels the services one at a
// time in reverse order, waiting for each to return before the next.
//
// Postcondition: All services have returned. The result joins every service
// error other than context cancellation or deadline expiry.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()
	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	exited := make(chan string, len(services))
	runs := make([]running, len(services))
	for i, ns := range services {
		svcCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		runs[i] = running{cancel: cancel, done: make(chan error, 1)}
		l.logger.Info("starting service", zap.String("service", ns.name))
		go func(ns namedService, r running) {
			r.done <- ns.service.Run(svcCtx)
			exited <- ns.name
		}(ns, runs[i])
	}

	l.logger.Info("all services started",
		zap.Int("count", len(services)),
		zap.Duration("startup", time.Since(start)),
	)

	select {
	case <-sigCtx.Done():
		l.logger.Info("shutting down", zap.NamedError("cause", context.Cause(sigCtx)))
	case name := <-exited:
		l.logger.Info("service exited, shutting down", zap.String("service", name))
	}

	err := l.shutdown(services, runs)
	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(start)))
	return err
}

func (l *Lifecycle) shutdown(services []namedService, runs []running) error {
	shutdownStart := time.Now()
	var errs []error
	for i := len(services) - 1; i >= 0; i-- {
		ns, r := services[i], runs[i]
		svcStart := time.Now()
		l.logger.Info("stopping service", zap.String("service", ns.name))
		r.cancel()
		err := <-r.done
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			l.logger.Error("service failed", zap.String("service", ns.name), zap.Error(err))
			errs = append(errs, fmt.Errorf("service %s: %w", ns.name, err))
		}
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	l.logger.Info("all services stopped",
		zap.Duration("shutdown_elapsed", time.Since(shutdownStart)),
	)
	return errors.Join(errs...)
}
