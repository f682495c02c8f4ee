package mixinconfig

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "mixin-resolver.mixinconfig"

// Package-level tracer for configuration builds.
var tracer = otel.Tracer(instrumentationName)

// buildMetrics are the instruments recorded by configuration builds.
type buildMetrics struct {
	buildLatency     metric.Float64Histogram
	buildTotal       metric.Int64Counter
	contextsBuilt    metric.Int64Histogram
	duplicatesElided metric.Int64Counter
}

// newBuildMetrics creates the build instruments from mp.
func newBuildMetrics(mp metric.MeterProvider) (*buildMetrics, error) {
	meter := mp.Meter(instrumentationName)

	var (
		m   buildMetrics
		err error
	)

	m.buildLatency, err = meter.Float64Histogram(
		"mixin_configuration_build_duration_seconds",
		metric.WithDescription("Duration of configuration builds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.buildTotal, err = meter.Int64Counter(
		"mixin_configuration_build_total",
		metric.WithDescription("Total number of configuration builds"),
	)
	if err != nil {
		return nil, err
	}

	m.contextsBuilt, err = meter.Int64Histogram(
		"mixin_class_contexts_built",
		metric.WithDescription("Number of class contexts materialised per build"),
	)
	if err != nil {
		return nil, err
	}

	m.duplicatesElided, err = meter.Int64Counter(
		"mixin_duplicates_elided_total",
		metric.WithDescription("Equal mixin redeclarations ignored by the builder"),
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// recordBuild records metrics for a build operation. A nil receiver records nothing.
func (m *buildMetrics) recordBuild(ctx context.Context, duration time.Duration, contextCount int, success bool) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))

	m.buildLatency.Record(ctx, duration.Seconds(), attrs)
	m.buildTotal.Add(ctx, 1, attrs)

	if success {
		m.contextsBuilt.Record(ctx, int64(contextCount))
	}
}

// recordDuplicatesElided counts equal redeclarations ignored by a build.
func (m *buildMetrics) recordDuplicatesElided(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}

	m.duplicatesElided.Add(ctx, int64(n))
}

// startBuildSpan creates a span for a build operation.
func startBuildSpan(ctx context.Context, targetCount int, hasParent bool) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Builder.BuildConfiguration",
		trace.WithAttributes(
			attribute.Int("mixin.target_count", targetCount),
			attribute.Bool("mixin.has_parent", hasParent),
		),
	)
}

// setBuildSpanResult sets the result attributes on a build span.
func setBuildSpanResult(span trace.Span, contextCount, errorCount int) {
	span.SetAttributes(
		attribute.Int("mixin.context_count", contextCount),
		attribute.Int("mixin.error_count", errorCount),
	)
}
