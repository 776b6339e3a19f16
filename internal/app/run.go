package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/specialistvlad/etreport/internal/builder"
	"github.com/specialistvlad/etreport/internal/ctxlog"
	"github.com/specialistvlad/etreport/internal/metrics"
	"github.com/specialistvlad/etreport/internal/registry"
	"github.com/specialistvlad/etreport/internal/report"
	"github.com/specialistvlad/etreport/internal/telemetry"
)

// Run executes the whole pipeline. The report reaches the output writer only
// once every phase has succeeded.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Run method started.")

	tracer, shutdown, err := telemetry.Init(ctx, telemetry.Config{Path: a.config.TracePath, ServiceVersion: Version})
	if err != nil {
		return err
	}
	defer func() {
		if serr := shutdown(context.Background()); serr != nil {
			a.logger.Warn("Failed to flush phase spans.", "error", serr)
		}
	}()

	ctx, span := telemetry.StartPhase(ctx, tracer, "run")
	defer func() { telemetry.EndPhase(span, err) }()

	settings := a.config.Settings
	refStyle, err := builder.ParseRefStyle(settings.TaskRef)
	if err != nil {
		return err
	}
	b := builder.New(builder.Options{
		Units: builder.Units{
			ClockDivisor:     settings.ClockDivisor,
			TimestampDivisor: settings.TimestampDivisor,
			StartOffset:      settings.StartOffset,
		},
		TaskRef: refStyle,
		Jobs:    settings.Jobs,
	})
	reportOpts := report.Options{
		Format:          settings.Format,
		PerWorker:       settings.PerWorker(),
		ExcludeInternal: settings.ExcludeInternal,
		InternalMarker:  settings.InternalMarker,
	}

	var reg *registry.Registry
	err = a.phase(ctx, tracer, "registry", func(ctx context.Context) error {
		var err error
		reg, err = a.loadRegistry(ctx)
		return err
	})
	if err != nil {
		return err
	}

	err = a.phase(ctx, tracer, "ingest", func(ctx context.Context) error {
		paths, err := a.logPaths(ctx)
		if err != nil {
			return err
		}
		inputs, closeInputs, err := openInputs(paths)
		defer closeInputs()
		if err != nil {
			return err
		}
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("inputs", len(inputs)))
		return b.Ingest(ctx, reg, inputs...)
	})
	if err != nil {
		return err
	}

	err = a.phase(ctx, tracer, "summarize", func(ctx context.Context) error {
		b.Summarize(ctx, reg)
		return nil
	})
	if err != nil {
		return err
	}

	err = a.phase(ctx, tracer, "synthesize", func(ctx context.Context) error {
		reg.Tree.Synthesize()
		ctxlog.FromContext(ctx).Info("Location tree synthesized.", "mode", reg.Tree.Mode(), "total", reg.Tree.Root.Aggregate.Total)
		return nil
	})
	if err != nil {
		return err
	}

	var out bytes.Buffer
	err = a.phase(ctx, tracer, "report", func(ctx context.Context) error {
		if err := report.Write(&out, reg, reportOpts); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		if a.metrics != nil {
			a.metrics.Record(reg, report.Summaries(reg, reportOpts))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if a.metrics != nil {
		if err := metrics.WriteTextfile(a.config.MetricsPath, a.gatherer); err != nil {
			return err
		}
		a.logger.Debug("Metrics written.", "path", a.config.MetricsPath)
	}

	if _, err := a.outW.Write(out.Bytes()); err != nil {
		if errors.Is(err, syscall.EPIPE) {
			a.logger.Debug("Report reader went away; output truncated.")
			return nil
		}
		return fmt.Errorf("failed to write report: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// phase runs fn as one named pipeline phase: its own span, a logger tagged
// with the phase name, and a duration gauge when metrics are enabled.
func (a *App) phase(ctx context.Context, tracer trace.Tracer, name string, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := telemetry.StartPhase(ctx, tracer, name)
	ctx = ctxlog.With(ctx, "phase", name)

	err := fn(ctx)

	telemetry.EndPhase(span, err)
	if a.metrics != nil {
		a.metrics.ObservePhase(name, time.Since(start))
	}
	return err
}
