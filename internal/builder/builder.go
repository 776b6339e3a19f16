package builder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/etreport/internal/ctxlog"
	"github.com/specialistvlad/etreport/internal/registry"
	"github.com/specialistvlad/etreport/internal/trace"
)

// maxLineSize bounds a single log line.
const maxLineSize = 1 << 20

// Input is one event log stream, e.g. a per-worker shard.
type Input struct {
	Name   string
	Reader io.Reader
}

// Builder fills the tasks of a registry from event logs.
type Builder struct {
	opts Options
}

// New creates a builder.
func New(opts Options) *Builder {
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return &Builder{opts: opts}
}

// taskLines collects the attributed lines of one task in log order.
type taskLines struct {
	task  *trace.Task
	lines []line
}

// Ingest reads every input in order and appends the resulting records to the
// tasks of reg. Inputs behave as if they were concatenated. On error the
// registry may hold a partial trace and must be discarded.
func (b *Builder) Ingest(ctx context.Context, reg *registry.Registry, inputs ...Input) error {
	logger := ctxlog.FromContext(ctx)

	var (
		order    []*taskLines
		byID     = make(map[int]*taskLines)
		resolved int
		skipped  int
	)

	// Resolution stops at the first bad line; records are still built for the
	// lines before it so an earlier record error takes precedence.
	resolveErr := func() error {
		for idx, in := range inputs {
			logger.Debug("Reading event log...", "source", in.Name)
			scanner := bufio.NewScanner(in.Reader)
			scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

			lineNo := 0
			for scanner.Scan() {
				lineNo++
				fields := strings.Fields(scanner.Text())
				if len(fields) == 0 {
					continue
				}
				pos := position{input: idx, source: in.Name, line: lineNo}

				ref, body, skip, perr := splitRef(fields, b.opts.TaskRef)
				if perr != nil {
					return perr.At(pos.source, pos.line)
				}
				if skip {
					skipped++
					continue
				}

				id, err := strconv.Atoi(ref)
				if err != nil {
					return trace.NewError(trace.ErrMalformedRecord, "invalid task reference %q", ref).At(pos.source, pos.line)
				}
				task, ok := reg.Lookup(id)
				if !ok {
					return trace.NewError(trace.ErrUnknownTask, "task %d is not in the registry", id).At(pos.source, pos.line)
				}

				tl, ok := byID[id]
				if !ok {
					tl = &taskLines{task: task}
					byID[id] = tl
					order = append(order, tl)
				}
				tl.lines = append(tl.lines, line{pos: pos, fields: fields, body: body})
				resolved++
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read event log %s: %w", in.Name, err)
			}
		}
		return nil
	}()
	logger.Debug("Event log lines resolved.", "records", resolved, "skipped", skipped, "tasks", len(order))

	var inputErr *trace.Error
	if resolveErr != nil && !errors.As(resolveErr, &inputErr) {
		// A read failure is not positioned; nothing else matters.
		return resolveErr
	}

	recordErr := b.buildRecords(order)
	if recordErr != nil {
		return recordErr
	}
	if resolveErr != nil {
		return resolveErr
	}

	logger.Info("Event log ingested.", "inputs", len(inputs), "records", resolved, "skipped", skipped, "tasks", len(order))
	return nil
}

// buildRecords parses and appends the lines of every task, up to Jobs tasks
// at a time. It returns the failure positioned earliest in the input.
func (b *Builder) buildRecords(order []*taskLines) error {
	type failure struct {
		pos position
		err *trace.Error
	}
	failures := make([]*failure, len(order))

	var g errgroup.Group
	g.SetLimit(b.opts.Jobs)
	for i, tl := range order {
		i, tl := i, tl
		g.Go(func() error {
			for _, l := range tl.lines {
				rec, perr := parseRecord(l, b.opts.Units)
				if perr == nil {
					if err := tl.task.Append(rec); err != nil && !errors.As(err, &perr) {
						perr = trace.NewError(trace.ErrMalformedRecord, "%v", err)
					}
				}
				if perr != nil {
					failures[i] = &failure{pos: l.pos, err: perr.At(l.pos.source, l.pos.line)}
					return nil
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	var first *failure
	for _, f := range failures {
		if f != nil && (first == nil || f.pos.before(first.pos)) {
			first = f
		}
	}
	if first != nil {
		return first.err
	}
	return nil
}

// Summarize computes the summary of every realized task. Unrealized tasks are
// left without a summary.
func (b *Builder) Summarize(ctx context.Context, reg *registry.Registry) {
	logger := ctxlog.FromContext(ctx)

	realized := 0
	for _, id := range reg.IDs() {
		task, _ := reg.Lookup(id)
		if task.Summarize() {
			realized++
		}
	}

	logger.Info("Task summaries computed.", "realized", realized, "unrealized", len(reg.Tasks)-realized)
}
