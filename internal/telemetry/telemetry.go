// Package telemetry traces the pipeline phases of a run with OpenTelemetry.
// Spans are exported as JSON to a file; with no file configured every span is
// a no-op.
package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName names the tracer spans are created with.
const InstrumentationName = "github.com/specialistvlad/etreport"

// Config controls phase tracing.
type Config struct {
	// Path is the file spans are written to. Empty disables tracing.
	Path string
	// ServiceVersion is attached to the exported resource.
	ServiceVersion string
}

// Init creates the tracer for a run. The returned shutdown flushes pending
// spans and closes the output file; it must be called once the run ends.
func Init(ctx context.Context, cfg Config) (tracer trace.Tracer, shutdown func(context.Context) error, err error) {
	if cfg.Path == "" {
		return noop.NewTracerProvider().Tracer(InstrumentationName), func(context.Context) error { return nil }, nil
	}

	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create trace file: %w", err)
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(f), stdouttrace.WithPrettyPrint())
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("create exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", "etreport"),
		attribute.String("service.version", cfg.ServiceVersion),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	shutdown = func(ctx context.Context) error {
		var errs []error
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
		if len(errs) > 0 {
			return fmt.Errorf("shutdown errors: %v", errs)
		}
		return nil
	}
	return tp.Tracer(InstrumentationName), shutdown, nil
}

// StartPhase starts the span of one pipeline phase.
func StartPhase(ctx context.Context, tracer trace.Tracer, phase string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, phase, trace.WithAttributes(attrs...))
}

// EndPhase marks the span failed if err is set, then ends it.
func EndPhase(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
