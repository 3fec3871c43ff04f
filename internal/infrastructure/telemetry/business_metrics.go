// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the document platform.
// It tracks tenant registration outcomes, compensation activity, and
// portal read health.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	registrationTotal      *Counter
	compensationErrorTotal *Counter
	orphanedIdentityTotal  *Counter
	portalReadTotal        *Counter

	// Histogram metrics
	registrationDuration *Histogram

	// Gauge metrics (point-in-time values)
	activeTenants      *Gauge
	trialSubscriptions *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	tenantProvider TenantMetricsProvider
}

// TenantMetricsProvider provides tenant population data for periodic metrics
// collection. The interface keeps the telemetry layer from depending on the
// identity and billing domains directly.
type TenantMetricsProvider interface {
	// CountActiveTenants returns the number of tenants not suspended or deleted
	CountActiveTenants(ctx context.Context) (int64, error)

	// CountTrialSubscriptions returns the number of subscriptions still in trial
	CountTrialSubscriptions(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	TenantProvider  TenantMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:          cfg.Meter,
		logger:         logger,
		stopChan:       make(chan struct{}),
		tenantProvider: cfg.TenantProvider,
	}

	var err error

	// Registration metrics
	bm.registrationTotal, err = NewCounter(
		cfg.Meter,
		"docvault_registration_total",
		"Total number of tenant registration attempts by outcome",
		"{registrations}",
	)
	if err != nil {
		return nil, err
	}

	bm.compensationErrorTotal, err = NewCounter(
		cfg.Meter,
		"docvault_registration_compensation_errors_total",
		"Total number of rollback steps that failed during registration compensation",
		"{steps}",
	)
	if err != nil {
		return nil, err
	}

	bm.orphanedIdentityTotal, err = NewCounter(
		cfg.Meter,
		"docvault_registration_orphaned_identities_total",
		"Total number of identity accounts left behind by incomplete compensation",
		"{identities}",
	)
	if err != nil {
		return nil, err
	}

	bm.registrationDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "docvault_registration_duration_seconds",
		Description: "End-to-end tenant registration duration",
		Unit:        "s",
		Boundaries:  RegistrationDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	// Portal metrics
	bm.portalReadTotal, err = NewCounter(
		cfg.Meter,
		"docvault_portal_reads_total",
		"Total number of portal resource reads by resource and outcome",
		"{reads}",
	)
	if err != nil {
		return nil, err
	}

	// Tenant population gauges
	bm.activeTenants, err = NewGauge(
		cfg.Meter,
		"docvault_active_tenants",
		"Current number of active tenants",
		"{tenants}",
	)
	if err != nil {
		return nil, err
	}

	bm.trialSubscriptions, err = NewGauge(
		cfg.Meter,
		"docvault_trial_subscriptions",
		"Current number of subscriptions still in trial",
		"{subscriptions}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Registration Metrics
// =============================================================================

// RegistrationOutcome labels the terminal state of a registration attempt.
type RegistrationOutcome string

const (
	RegistrationOutcomeSucceeded RegistrationOutcome = "succeeded"
	RegistrationOutcomeRejected  RegistrationOutcome = "rejected"
	RegistrationOutcomeFailed    RegistrationOutcome = "failed"
)

// RecordRegistration records a finished registration attempt.
// Duration covers validation through the final provisioning step (or the
// compensation pass on failure).
func (bm *BusinessMetrics) RecordRegistration(ctx context.Context, outcome RegistrationOutcome, d time.Duration) {
	bm.registrationTotal.Inc(ctx,
		AttrOutcome.String(string(outcome)),
	)
	bm.registrationDuration.RecordDuration(ctx, d,
		AttrOutcome.String(string(outcome)),
	)
}

// RecordRegistrationRejected records a registration stopped by the validation
// gate, labeled with the field that failed.
func (bm *BusinessMetrics) RecordRegistrationRejected(ctx context.Context, reason string, d time.Duration) {
	bm.registrationTotal.Inc(ctx,
		AttrOutcome.String(string(RegistrationOutcomeRejected)),
		AttrRejectionReason.String(reason),
	)
	bm.registrationDuration.RecordDuration(ctx, d,
		AttrOutcome.String(string(RegistrationOutcomeRejected)),
	)
}

// RecordCompensationError records a rollback step that itself failed.
// Compensation is best effort, so these increments are the only trace the
// failure leaves besides the log line.
func (bm *BusinessMetrics) RecordCompensationError(ctx context.Context, step string) {
	bm.compensationErrorTotal.Inc(ctx,
		AttrProvisioningStep.String(step),
	)
}

// RecordOrphanedIdentity records an identity account that compensation could
// not remove. Each increment corresponds to a manual cleanup task.
func (bm *BusinessMetrics) RecordOrphanedIdentity(ctx context.Context) {
	bm.orphanedIdentityTotal.Inc(ctx)
}

// =============================================================================
// Portal Metrics
// =============================================================================

// PortalReadOutcome labels the result of a portal resource read.
type PortalReadOutcome string

const (
	PortalReadOutcomeOK       PortalReadOutcome = "ok"
	PortalReadOutcomeDegraded PortalReadOutcome = "degraded"
	PortalReadOutcomeDenied   PortalReadOutcome = "denied"
)

// RecordPortalRead records a portal resource read.
// Degraded means the read failed and the caller served an empty result
// instead of an error.
func (bm *BusinessMetrics) RecordPortalRead(ctx context.Context, tenantID uuid.UUID, resource string, outcome PortalReadOutcome) {
	bm.portalReadTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrPortalResource.String(resource),
		AttrOutcome.String(string(outcome)),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects tenant population metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectTenantMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectTenantMetrics(ctx)
		}
	}
}

// collectTenantMetrics collects tenant population gauge metrics.
func (bm *BusinessMetrics) collectTenantMetrics(ctx context.Context) {
	if bm.tenantProvider == nil {
		bm.logger.Debug("No tenant provider configured, skipping tenant metrics collection")
		return
	}

	active, err := bm.tenantProvider.CountActiveTenants(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count active tenants for metrics collection", zap.Error(err))
	} else {
		bm.activeTenants.Record(ctx, active)
	}

	trials, err := bm.tenantProvider.CountTrialSubscriptions(ctx)
	if err != nil {
		bm.logger.Warn("Failed to count trial subscriptions for metrics collection", zap.Error(err))
	} else {
		bm.trialSubscriptions.Record(ctx, trials)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
