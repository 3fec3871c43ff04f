package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap/zaptest"

	"github.com/docvault/backend/internal/infrastructure/telemetry"
)

func noopMeter() metric.Meter {
	return noop.NewMeterProvider().Meter("test")
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		ExportInterval:    60 * time.Second,
		ServiceName:       "test-service",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, mp)

	assert.False(t, mp.IsEnabled())
	assert.Equal(t, "test-service", mp.GetConfig().ServiceName)
	assert.False(t, mp.GetConfig().Enabled)
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestMeterProvider_Meter_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)

	// Falls back to the global (no-op) meter
	require.NotNil(t, mp.Meter("test-meter"))
	assert.NoError(t, mp.ForceFlush(ctx))
}

func TestCounter(t *testing.T) {
	ctx := context.Background()
	counter, err := telemetry.NewCounter(noopMeter(), "test_counter", "A test counter", "{items}")
	require.NoError(t, err)
	require.NotNil(t, counter)

	// No-op meter accepts recordings without error
	counter.Add(ctx, 5, telemetry.AttrTenantID.String("tenant-1"))
	counter.Inc(ctx)
}

func TestHistogram(t *testing.T) {
	ctx := context.Background()
	histogram, err := telemetry.NewHistogram(noopMeter(), telemetry.HistogramOpts{
		Name:        "test_duration_seconds",
		Description: "A test histogram",
		Unit:        "s",
		Boundaries:  telemetry.RegistrationDurationBuckets,
	})
	require.NoError(t, err)
	require.NotNil(t, histogram)

	histogram.Record(ctx, 2.5, attribute.String("route", "/api/v1/auth/register"))
	histogram.RecordDuration(ctx, 150*time.Millisecond)
}

func TestGauge(t *testing.T) {
	ctx := context.Background()

	gauge, err := telemetry.NewGauge(noopMeter(), "test_gauge", "A test gauge", "{tenants}")
	require.NoError(t, err)
	gauge.Record(ctx, 42)

	floatGauge, err := telemetry.NewFloatGauge(noopMeter(), "test_float_gauge", "A float gauge", "1")
	require.NoError(t, err)
	floatGauge.Record(ctx, 0.75)
}

func TestCommonAttributes(t *testing.T) {
	want := map[attribute.Key]string{
		telemetry.AttrTenantID:         "tenant_id",
		telemetry.AttrIdentityID:       "identity_id",
		telemetry.AttrOutcome:          "outcome",
		telemetry.AttrRejectionReason:  "rejection_reason",
		telemetry.AttrProvisioningStep: "provisioning_step",
		telemetry.AttrPortalResource:   "portal_resource",
	}
	for key, name := range want {
		assert.Equal(t, name, string(key))
	}
}

func TestRegistrationDurationBuckets(t *testing.T) {
	buckets := telemetry.RegistrationDurationBuckets
	assert.NotEmpty(t, buckets)

	// Boundaries must be strictly increasing
	for i := 1; i < len(buckets); i++ {
		assert.Greater(t, buckets[i], buckets[i-1])
	}
}
