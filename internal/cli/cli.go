package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/specialistvlad/etreport/internal/app"
	"github.com/specialistvlad/etreport/internal/config"
)

// Defaults taken when neither a flag nor an argument names the inputs.
const (
	DefaultTasksPath = "n00_tasks.map"
	DefaultLogPath   = "mon_all.log"
	DefaultLogExt    = ".log"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// options holds the raw flag values before they are merged with the
// settings file.
type options struct {
	tasksPath   string
	logDir      string
	logExt      string
	configPath  string
	metricsPath string
	tracePath   string
	logLevel    string
	logFormat   string

	settings config.Settings
}

// settingFlags maps every flag that overrides a settings file attribute to
// the function copying its value.
var settingFlags = map[string]func(dst, src *config.Settings){
	"clock-divisor":     func(dst, src *config.Settings) { dst.ClockDivisor = src.ClockDivisor },
	"timestamp-divisor": func(dst, src *config.Settings) { dst.TimestampDivisor = src.TimestampDivisor },
	"start-offset":      func(dst, src *config.Settings) { dst.StartOffset = src.StartOffset },
	"task-ref":          func(dst, src *config.Settings) { dst.TaskRef = src.TaskRef },
	"per-worker":        func(dst, src *config.Settings) { dst.GroupBy = src.GroupBy },
	"exclude-internal":  func(dst, src *config.Settings) { dst.ExcludeInternal = src.ExcludeInternal },
	"internal-marker":   func(dst, src *config.Settings) { dst.InternalMarker = src.InternalMarker },
	"format":            func(dst, src *config.Settings) { dst.Format = src.Format },
	"jobs":              func(dst, src *config.Settings) { dst.Jobs = src.Jobs },
}

// Parse processes command-line arguments. It returns a populated Config, a
// boolean indicating if the program should exit cleanly (help or version was
// printed), or an ExitError. A settings file named by --config is read with
// loader; flags set explicitly take precedence over it.
func Parse(args []string, output io.Writer, loader config.Loader) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		opts      options
		perWorker bool
		parsed    *app.Config
	)
	opts.settings = config.Default()

	cmd := &cobra.Command{
		Use:   "etreport [flags] [LOG_FILE ...]",
		Short: "Reconstruct per-task dispatch traces and aggregate them over the location tree",
		Long: `etreport reads a task descriptor map and the event log written by a
task-dispatch runtime, and reports how much time each task, each location
and each group of tasks spent executing and waiting.

Several LOG_FILE shards are ingested in order as one log.`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, positional []string) error {
			if perWorker {
				opts.settings.GroupBy = config.GroupByNameWorker
			} else {
				opts.settings.GroupBy = config.GroupByName
			}

			cfg, err := build(cmd.Context(), cmd.Flags(), &opts, positional, loader)
			if err != nil {
				return err
			}
			parsed = cfg
			return nil
		},
	}
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%v", err)
	})

	flags := cmd.Flags()
	flags.StringVarP(&opts.tasksPath, "tasks", "t", DefaultTasksPath, "Task descriptor map.")
	flags.StringVar(&opts.logDir, "log-dir", "", "Ingest every file with the --log-ext extension under this directory instead of LOG_FILE arguments.")
	flags.StringVar(&opts.logExt, "log-ext", DefaultLogExt, "Extension of the event log shards found by --log-dir.")
	flags.StringVarP(&opts.configPath, "config", "c", "", "HCL settings file.")
	flags.StringVar(&opts.metricsPath, "metrics-file", "", "Write Prometheus metrics in textfile format to this path.")
	flags.StringVar(&opts.tracePath, "trace-file", "", "Write pipeline phase spans as JSON to this path.")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log output format. Options: 'text' or 'json'. Defaults to text on a terminal, json otherwise.")

	flags.Float64Var(&opts.settings.ClockDivisor, "clock-divisor", opts.settings.ClockDivisor, "Divisor converting et and creat values to seconds.")
	flags.Float64Var(&opts.settings.TimestampDivisor, "timestamp-divisor", opts.settings.TimestampDivisor, "Divisor converting end timestamps to seconds.")
	flags.Float64Var(&opts.settings.StartOffset, "start-offset", opts.settings.StartOffset, "Seconds subtracted from end and creation times.")
	flags.StringVar(&opts.settings.TaskRef, "task-ref", opts.settings.TaskRef, "Where log lines carry the task id. Options: 'positional' or 'tid'.")
	flags.BoolVar(&perWorker, "per-worker", false, "Group tasks and tree aggregates by worker as well as by name.")
	flags.BoolVar(&opts.settings.ExcludeInternal, "exclude-internal", opts.settings.ExcludeInternal, "Leave groups of internal tasks out of the summary.")
	flags.StringVar(&opts.settings.InternalMarker, "internal-marker", opts.settings.InternalMarker, "Name prefix marking internal tasks.")
	flags.StringVar(&opts.settings.Format, "format", opts.settings.Format, "Report format. Options: 'text' or 'yaml'.")
	flags.IntVar(&opts.settings.Jobs, "jobs", opts.settings.Jobs, "Number of tasks whose records are parsed concurrently.")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, usageError("%v", err)
	}

	if parsed == nil {
		// Help or version output was printed instead of running.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "tasks", parsed.TasksPath, "logs", parsed.LogPaths, "log_dir", parsed.LogDir)
	return parsed, false, nil
}

// build merges the settings file under the explicitly set flags and
// validates the result.
func build(ctx context.Context, flags *pflag.FlagSet, opts *options, positional []string, loader config.Loader) (*app.Config, error) {
	logFormat := strings.ToLower(opts.logFormat)
	if logFormat != "" && logFormat != "text" && logFormat != "json" {
		return nil, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(opts.logLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	if opts.logDir != "" && len(positional) > 0 {
		return nil, usageError("LOG_FILE arguments cannot be combined with --log-dir")
	}

	settings := config.Default()
	if opts.configPath != "" {
		if loader == nil {
			return nil, usageError("no loader available for settings file %s", opts.configPath)
		}
		if err := loader.Load(ctx, opts.configPath, &settings); err != nil {
			return nil, usageError("failed to load settings: %v", err)
		}
	}
	for name, apply := range settingFlags {
		if flags.Changed(name) {
			apply(&settings, &opts.settings)
		}
	}

	logPaths := positional
	if opts.logDir == "" && len(logPaths) == 0 {
		logPaths = []string{DefaultLogPath}
	}

	cfg, err := app.NewConfig(app.Config{
		TasksPath:   opts.tasksPath,
		LogPaths:    logPaths,
		LogDir:      opts.logDir,
		LogExt:      opts.logExt,
		MetricsPath: opts.metricsPath,
		TracePath:   opts.tracePath,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		Settings:    settings,
	})
	if err != nil {
		return nil, usageError("%v", err)
	}
	return cfg, nil
}
