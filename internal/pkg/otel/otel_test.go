package otel

import (
	"context"
	"testing"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.OtelConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupEnabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.OtelConfig{
		Enabled:     true,
		ServiceName: "fee-ledger-test",
		Endpoint:    "localhost:4318",
		Insecure:    true,
		SampleRatio: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	_, span := GetTracer().Start(context.Background(), "test-span")
	span.End()

	_ = shutdown(context.Background())
}

func TestGetTracerNoop(t *testing.T) {
	saved := tracer
	tracer = nil
	defer func() { tracer = saved }()

	assert.NotNil(t, GetTracer())
}
