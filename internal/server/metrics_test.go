package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcal/internal/instrumentation"
)

func disabledProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	p, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{Enabled: false})
	require.NoError(t, err)
	return p
}

func TestNewMetricsServerRequiresProvider(t *testing.T) {
	_, err := NewMetricsServer(MetricsServerConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider is required")
}

func TestNewMetricsServerRequiresPrometheus(t *testing.T) {
	_, err := NewMetricsServer(MetricsServerConfig{Provider: disabledProvider(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prometheus exporter is not enabled")
}

func TestMetricsServerDefaultAddr(t *testing.T) {
	// Bypass the provider requirement to check only the addr default.
	s := &MetricsServer{addr: DefaultMetricsAddr}
	assert.Equal(t, ":9090", s.Addr())
}

func TestMetricsServerShutdownWithoutStart(t *testing.T) {
	s := &MetricsServer{health: NewHealthChecker(nil)}
	assert.NoError(t, s.Shutdown(context.Background()))

	// Shutdown marks the health checker as shutting down.
	assert.True(t, s.health.shutdown.Load())
}
