package app

import (
	"context"
	"io"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/specialistvlad/etreport/internal/ctxlog"
	"github.com/specialistvlad/etreport/internal/metrics"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config

	// Both nil unless a metrics file was requested.
	gatherer prom.Gatherer
	metrics  *metrics.Exporter
}

// NewApp is the constructor for the main application. The report is written
// to outW and logs to logW; each App gets its own logger and metrics registry.
func NewApp(outW, logW io.Writer, appConfig *Config) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
	}

	if appConfig.MetricsPath != "" {
		promReg := prom.NewRegistry()
		exporter, err := metrics.NewExporter(promReg)
		if err != nil {
			return nil, err
		}
		a.gatherer = promReg
		a.metrics = exporter
		logger.Debug("Metrics exporter registered.", "path", appConfig.MetricsPath)
	}

	return a, nil
}

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
