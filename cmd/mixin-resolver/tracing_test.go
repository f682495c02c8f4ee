package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"mixin-resolver/internal/mixinconfig"
)

func TestInstallTelemetry(t *testing.T) {
	var buf bytes.Buffer

	shutdown, err := installTelemetry(&buf)
	require.NoError(t, err)

	t.Cleanup(func() {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		otel.SetMeterProvider(metricnoop.NewMeterProvider())
	})

	_, err = mixinconfig.NewBuilder().BuildConfiguration(context.Background())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "Builder.BuildConfiguration")
	assert.Contains(t, buf.String(), "mixin_configuration_build_total")
	assert.Contains(t, buf.String(), "mixin_configuration_build_duration_seconds")
}
