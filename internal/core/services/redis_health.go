package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driving"
)

// Ensure healthService implements HealthService
var _ driving.HealthService = (*healthService)(nil)

var errNotConfigured = errors.New("not configured")

type healthService struct {
	eventBus       driven.RedisProber
	workflowEngine driven.RedisProber
	logger         *slog.Logger
	now            func() time.Time
}

// NewHealthService creates a HealthService probing the event bus and
// workflow engine Redis instances. A nil prober reports as disconnected.
func NewHealthService(eventBus, workflowEngine driven.RedisProber, logger *slog.Logger) driving.HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &healthService{
		eventBus:       eventBus,
		workflowEngine: workflowEngine,
		logger:         logger,
		now:            time.Now,
	}
}

// RedisHealth probes both instances concurrently. Probe failures are
// reported in the result, never returned as an error.
func (s *healthService) RedisHealth(ctx context.Context) (*domain.RedisHealthReport, error) {
	var (
		g                     errgroup.Group
		eventBus, workflow    domain.RedisServiceHealth
		eventErr, workflowErr error
	)

	g.Go(func() error {
		eventBus, eventErr = probe(ctx, s.eventBus)
		return nil
	})
	g.Go(func() error {
		workflow, workflowErr = probe(ctx, s.workflowEngine)
		return nil
	})
	_ = g.Wait()

	report := &domain.RedisHealthReport{
		Status:         domain.HealthStatusHealthy,
		Timestamp:      s.now().UTC(),
		EventBus:       eventBus,
		WorkflowEngine: workflow,
		Errors:         []string{},
	}
	if eventErr != nil {
		report.Errors = append(report.Errors, "Event bus Redis: "+eventErr.Error())
	}
	if workflowErr != nil {
		report.Errors = append(report.Errors, "Workflow engine Redis: "+workflowErr.Error())
	}
	if !eventBus.Connected() || !workflow.Connected() {
		report.Status = domain.HealthStatusUnhealthy
		s.logger.Warn("redis health check failed", "errors", report.Errors)
	}
	return report, nil
}

func probe(ctx context.Context, prober driven.RedisProber) (domain.RedisServiceHealth, error) {
	if prober == nil {
		return domain.RedisServiceHealth{Status: domain.ConnectionDisconnected}, errNotConfigured
	}
	health, err := prober.Probe(ctx)
	if err == nil && health == nil {
		err = errors.New("empty probe result")
	}
	if err != nil {
		status := domain.RedisServiceHealth{Status: domain.ConnectionDisconnected}
		if health != nil {
			status.URL = health.URL
		}
		return status, err
	}
	return *health, nil
}
