package builder

import (
	"math"
	"strconv"
	"strings"

	"github.com/specialistvlad/etreport/internal/trace"
)

// skipRef is the task reference of runtime-level informational lines.
const skipRef = "***"

// key enumerates the recognized record keys.
type key int

const (
	keyDisp key = iota
	keyState
	keyElapsed
	keyCreation
	numKeys
)

var keywords = map[string]key{
	"disp":  keyDisp,
	"st":    keyState,
	"et":    keyElapsed,
	"creat": keyCreation,
}

func (k key) String() string {
	for name, v := range keywords {
		if v == k {
			return name
		}
	}
	return "?"
}

// line is a log line attributed to a task but not parsed yet.
type line struct {
	pos    position
	fields []string
	// body is the index of the first field after the task reference.
	body int
}

// position orders lines across all inputs.
type position struct {
	input  int
	source string
	line   int
}

func (p position) before(other position) bool {
	if p.input != other.input {
		return p.input < other.input
	}
	return p.line < other.line
}

// splitRef locates the task reference of a line. It reports skip for
// informational lines.
func splitRef(fields []string, style RefStyle) (ref string, body int, skip bool, err *trace.Error) {
	refAt := 1
	if style == RefMarker {
		if len(fields) < 2 || fields[1] != "tid" {
			return "", 0, false, trace.NewError(trace.ErrMalformedRecord, "missing `tid` marker")
		}
		refAt = 2
	}
	if len(fields) <= refAt {
		return "", 0, false, trace.NewError(trace.ErrMalformedRecord, "missing task reference")
	}
	ref = fields[refAt]
	return ref, refAt + 1, ref == skipRef, nil
}

// parseRecord tokenizes the fields of an attributed line into a record.
func parseRecord(l line, units Units) (*trace.Record, *trace.Error) {
	end, err := parseFinite(l.fields[0])
	if err != nil {
		return nil, trace.NewError(trace.ErrMalformedRecord, "invalid end timestamp %q", l.fields[0])
	}

	var (
		values  [numKeys]string
		seen    [numKeys]bool
		streams int
	)
	fields := l.fields
	for i := l.body; i < len(fields); i++ {
		tok := fields[i]

		if strings.HasPrefix(tok, "[") {
			// Stream metadata may contain spaces; skip through the closing bracket.
			for !strings.HasSuffix(fields[i], "]") {
				i++
				if i == len(fields) {
					return nil, trace.NewError(trace.ErrMalformedRecord, "unterminated stream metadata %q", tok)
				}
			}
			streams++
			continue
		}

		k, ok := keywords[tok]
		if !ok {
			return nil, trace.NewError(trace.ErrMalformedRecord, "unknown field %q", tok)
		}
		if seen[k] {
			return nil, trace.NewError(trace.ErrMalformedRecord, "duplicate field %q", tok)
		}
		if i+1 == len(fields) {
			return nil, trace.NewError(trace.ErrMalformedRecord, "field %q has no value", tok)
		}
		i++
		values[k] = fields[i]
		seen[k] = true
	}

	for _, required := range []key{keyDisp, keyElapsed} {
		if !seen[required] {
			return nil, trace.NewError(trace.ErrMalformedRecord, "missing field %q", required)
		}
	}

	rec := &trace.Record{End: units.endTime(end), State: values[keyState], Streams: streams}

	seq, err := strconv.Atoi(values[keyDisp])
	if err != nil {
		return nil, trace.NewError(trace.ErrMalformedRecord, "invalid disp %q", values[keyDisp])
	}
	rec.Seq = seq

	et, err := parseFinite(values[keyElapsed])
	if err != nil || et < 0 {
		return nil, trace.NewError(trace.ErrMalformedRecord, "invalid et %q", values[keyElapsed])
	}
	rec.Elapsed = units.duration(et)

	if seen[keyCreation] {
		creat, err := parseFinite(values[keyCreation])
		if err != nil {
			return nil, trace.NewError(trace.ErrMalformedRecord, "invalid creat %q", values[keyCreation])
		}
		rec.Creation = units.creationTime(creat)
		rec.HasCreation = true
	}

	return rec, nil
}

// parseFinite parses a float and rejects NaN and infinities.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}
