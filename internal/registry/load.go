package registry

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/specialistvlad/etreport/internal/ctxlog"
	"github.com/specialistvlad/etreport/internal/trace"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// Load reads descriptor lines of the form
//
//	<task_id> <location_vector> <name> <worker_id>
//
// from r and adds one task per line. Blank lines are ignored. source names the
// input in error messages.
func (r *Registry) Load(ctx context.Context, source string, in io.Reader) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading task descriptors...", "source", source)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	loaded := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		task, perr := parseDescriptor(line)
		if perr != nil {
			return perr.At(source, lineNo)
		}
		if err := r.Add(task); err != nil {
			var terr *trace.Error
			if errors.As(err, &terr) {
				return terr.At(source, lineNo)
			}
			return err
		}
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read task descriptors from %s: %w", source, err)
	}

	logger.Info("Registry loaded successfully.", "source", source, "tasks", loaded, "names", len(r.Groups))
	return nil
}

func parseDescriptor(line string) (*trace.Task, *trace.Error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return nil, trace.NewError(trace.ErrMalformedDescriptor, "expected 4 fields, got %d", len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil || id < 0 {
		return nil, trace.NewError(trace.ErrMalformedDescriptor, "invalid task id %q", fields[0])
	}
	worker, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, trace.NewError(trace.ErrMalformedDescriptor, "invalid worker id %q", fields[3])
	}

	return trace.NewTask(id, fields[1], fields[2], worker), nil
}
