package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mkidding/vibertime/internal/ports"
)

const (
	serviceName    = "vibertime"
	serviceVersion = "1.0.0"
)

// Exporter publishes the daily ledger to an OTEL Collector. The gauges
// are observable: each periodic collection pulls the current snapshot
// from the stats store, so the exporter never blocks the tick loops.
type Exporter struct {
	provider *sdkmetric.MeterProvider
}

// NewExporter creates an OTEL metrics exporter reading from store.
func NewExporter(ctx context.Context, cfg Config, store ports.StatsStore) (*Exporter, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTEL exporter is disabled or endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	activeSeconds, err := meter.Int64ObservableGauge(
		"vibertime_active_seconds",
		metric.WithDescription("Active seconds credited today"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating active gauge: %w", err)
	}

	typingSeconds, err := meter.Int64ObservableGauge(
		"vibertime_typing_seconds",
		metric.WithDescription("Typing seconds credited today"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating typing gauge: %w", err)
	}

	reviewingSeconds, err := meter.Int64ObservableGauge(
		"vibertime_reviewing_seconds",
		metric.WithDescription("Reviewing seconds credited today"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating reviewing gauge: %w", err)
	}

	humanChars, err := meter.Int64ObservableGauge(
		"vibertime_human_chars",
		metric.WithDescription("Characters classified as human-typed today"),
		metric.WithUnit("{char}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating human chars gauge: %w", err)
	}

	aiChars, err := meter.Int64ObservableGauge(
		"vibertime_ai_chars",
		metric.WithDescription("Characters classified as AI-generated today"),
		metric.WithUnit("{char}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating AI chars gauge: %w", err)
	}

	refactorChars, err := meter.Int64ObservableGauge(
		"vibertime_refactor_chars",
		metric.WithDescription("Characters classified as human-refactored today"),
		metric.WithUnit("{char}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating refactor chars gauge: %w", err)
	}

	aiShare, err := meter.Float64ObservableGauge(
		"vibertime_ai_share",
		metric.WithDescription("Fraction of today's characters attributed to AI"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating AI share gauge: %w", err)
	}

	_, err = meter.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			today := store.Today()
			opt := metric.WithAttributes(attribute.String("date", today.Date))
			o.ObserveInt64(activeSeconds, today.ActiveSeconds, opt)
			o.ObserveInt64(typingSeconds, today.TypingSeconds, opt)
			o.ObserveInt64(reviewingSeconds, today.ReviewingSeconds, opt)
			o.ObserveInt64(humanChars, today.HumanChars, opt)
			o.ObserveInt64(aiChars, today.AIChars, opt)
			o.ObserveInt64(refactorChars, today.RefactorChars, opt)
			o.ObserveFloat64(aiShare, today.AIShare(), opt)
			return nil
		},
		activeSeconds, typingSeconds, reviewingSeconds,
		humanChars, aiChars, refactorChars, aiShare,
	)
	if err != nil {
		return nil, fmt.Errorf("registering callback: %w", err)
	}

	return &Exporter{provider: provider}, nil
}

// Close shuts down the exporter and flushes any pending metrics.
func (e *Exporter) Close(ctx context.Context) error {
	return e.provider.Shutdown(ctx)
}
