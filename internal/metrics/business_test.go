package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestNewBusinessMetrics(t *testing.T) {
	meterProvider := sdkmetric.NewMeterProvider()
	defer meterProvider.Shutdown(context.Background())

	bm, err := NewBusinessMetrics(meterProvider, "cosecrets")
	require.NoError(t, err)
	require.NotNil(t, bm)

	assert.NotPanics(t, func() {
		bm.RecordOperation(context.Background(), "secrets", "secret_create", "success")
		bm.RecordDuration(context.Background(), "secrets", "secret_create", 25*time.Millisecond, "success")
	})
}

func TestNoOpBusinessMetrics(t *testing.T) {
	bm := NewNoOpBusinessMetrics()

	assert.NotPanics(t, func() {
		bm.RecordOperation(context.Background(), "teams", "team_create", "error")
		bm.RecordDuration(context.Background(), "teams", "team_create", time.Second, "error")
	})
}
