// Package observability wires OpenTelemetry metrics (exported through the
// Prometheus registry) and optional Jaeger tracing.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"pokemon-assistant/internal/common/config"
	"pokemon-assistant/internal/common/logger"
)

// Observability is nil safe: every method on a nil receiver is a no-op so
// components can be built without it in tests.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer

	questionCounter otelmetric.Int64Counter
	routeDuration   otelmetric.Float64Histogram
	jobCounter      otelmetric.Int64Counter
	jobDuration     otelmetric.Float64Histogram

	battleProject string
	chatProject   string
}

func New(cfg config.TracingConfig, log logger.Logger) *Observability {
	log = logger.ForComponent(log, "observability")
	o := &Observability{
		tracer:        noop.NewTracerProvider().Tracer(cfg.ServiceName),
		battleProject: cfg.BattleProject,
		chatProject:   cfg.ChatProject,
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))

	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err.Error()})
	} else {
		o.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
		otel.SetMeterProvider(o.meterProvider)
		o.initInstruments(o.meterProvider.Meter(cfg.ServiceName))
	}

	if cfg.Enabled {
		jaegerExp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerEndpoint)))
		if err != nil {
			log.Warn("Failed to create Jaeger exporter, tracing disabled", map[string]interface{}{"error": err.Error()})
		} else {
			o.tracerProvider = sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(jaegerExp),
				sdktrace.WithResource(res),
			)
			otel.SetTracerProvider(o.tracerProvider)
			o.tracer = o.tracerProvider.Tracer(cfg.ServiceName)
			log.Info("Tracing enabled", map[string]interface{}{"endpoint": cfg.JaegerEndpoint})
		}
	}

	return o
}

func (o *Observability) initInstruments(meter otelmetric.Meter) {
	o.questionCounter, _ = meter.Int64Counter(
		"questions.processed",
		otelmetric.WithDescription("Number of questions answered"),
	)
	o.routeDuration, _ = meter.Float64Histogram(
		"questions.duration",
		otelmetric.WithDescription("Question routing duration"),
		otelmetric.WithUnit("ms"),
	)
	o.jobCounter, _ = meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of workflow jobs processed"),
	)
	o.jobDuration, _ = meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Workflow job processing duration"),
		otelmetric.WithUnit("ms"),
	)
}

// BattleProject and ChatProject name the trace groupings used by the two
// public endpoints.
func (o *Observability) BattleProject() string {
	if o == nil {
		return ""
	}
	return o.battleProject
}

func (o *Observability) ChatProject() string {
	if o == nil {
		return ""
	}
	return o.chatProject
}

// StartSpan starts a span on the configured tracer.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (o *Observability) RecordQuestion(ctx context.Context, category string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("category", category))
	if o.questionCounter != nil {
		o.questionCounter.Add(ctx, 1, attrs)
	}
	if o.routeDuration != nil {
		o.routeDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	)
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, attrs)
	}
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown(ctx context.Context) {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
