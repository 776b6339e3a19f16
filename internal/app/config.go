package app

import (
	"errors"

	"github.com/specialistvlad/etreport/internal/config"
)

// Version is reported by the CLI and attached to exported spans.
var Version = "dev"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	TasksPath string   // task descriptor map
	LogPaths  []string // event log shards, ingested in order
	LogDir    string   // if set, every LogExt file under it replaces LogPaths
	LogExt    string

	MetricsPath string // Prometheus textfile, empty to disable
	TracePath   string // phase spans, empty to disable

	LogFormat string // text, json, or empty to decide by terminal
	LogLevel  string

	Settings config.Settings
}

// NewConfig checks the fields a run cannot start without and validates the
// settings.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TasksPath == "" {
		return nil, errors.New("TasksPath is a required configuration field and cannot be empty")
	}
	if cfg.LogDir == "" && len(cfg.LogPaths) == 0 {
		return nil, errors.New("either LogPaths or LogDir must be set")
	}
	if cfg.LogDir != "" && cfg.LogExt == "" {
		return nil, errors.New("LogExt is required when LogDir is set")
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
