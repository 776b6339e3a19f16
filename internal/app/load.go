package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/etreport/internal/builder"
	"github.com/specialistvlad/etreport/internal/ctxlog"
	"github.com/specialistvlad/etreport/internal/fsutil"
	"github.com/specialistvlad/etreport/internal/loctree"
	"github.com/specialistvlad/etreport/internal/registry"
)

// loadRegistry reads the task descriptor map.
func (a *App) loadRegistry(ctx context.Context) (*registry.Registry, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading task descriptors...", "tasks_path", a.config.TasksPath)

	mode := loctree.Scalar
	if a.config.Settings.PerWorker() {
		mode = loctree.PerWorker
	}

	f, err := os.Open(a.config.TasksPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open task descriptors: %w", err)
	}
	defer f.Close()

	reg := registry.New(mode)
	if err := reg.Load(ctx, a.config.TasksPath, f); err != nil {
		return nil, err
	}
	return reg, nil
}

// logPaths lists the event log shards in ingestion order.
func (a *App) logPaths(ctx context.Context) ([]string, error) {
	if a.config.LogDir == "" {
		return a.config.LogPaths, nil
	}

	paths, err := fsutil.FindFilesByExtension(a.config.LogDir, a.config.LogExt)
	if err != nil {
		return nil, fmt.Errorf("failed to list event logs in %s: %w", a.config.LogDir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no *%s files found in %s", a.config.LogExt, a.config.LogDir)
	}
	ctxlog.FromContext(ctx).Debug("Discovered event log shards.", "dir", a.config.LogDir, "count", len(paths))
	return paths, nil
}

// openInputs opens every shard. The returned close function must be called
// even when an error is returned.
func openInputs(paths []string) ([]builder.Input, func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	inputs := make([]builder.Input, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, closeAll, fmt.Errorf("failed to open event log: %w", err)
		}
		closers = append(closers, f)
		inputs = append(inputs, builder.Input{Name: path, Reader: f})
	}
	return inputs, closeAll, nil
}
