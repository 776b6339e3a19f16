package builder

import "fmt"

// RefStyle selects where a log line carries its task reference.
type RefStyle int

const (
	// RefPositional lines look like `<end> <tid> key value ...`.
	RefPositional RefStyle = iota
	// RefMarker lines look like `<end> tid <tid> key value ...`.
	RefMarker
)

// ParseRefStyle maps the settings spelling of a reference style to its value.
func ParseRefStyle(s string) (RefStyle, error) {
	switch s {
	case "", "positional":
		return RefPositional, nil
	case "tid":
		return RefMarker, nil
	default:
		return 0, fmt.Errorf("unknown task reference style %q", s)
	}
}

// String implements fmt.Stringer.
func (s RefStyle) String() string {
	if s == RefMarker {
		return "tid"
	}
	return "positional"
}

// Units converts raw log values to seconds.
type Units struct {
	// ClockDivisor converts elapsed and creation values, e.g. 1e9 for nanoseconds.
	ClockDivisor float64
	// TimestampDivisor converts end timestamps; 1 when the log already writes seconds.
	TimestampDivisor float64
	// StartOffset is subtracted from absolute times after conversion.
	StartOffset float64
}

// DefaultUnits matches a log with end timestamps in seconds and nanosecond durations.
func DefaultUnits() Units {
	return Units{ClockDivisor: 1e9, TimestampDivisor: 1}
}

func (u Units) endTime(raw float64) float64 {
	return raw/u.TimestampDivisor - u.StartOffset
}

func (u Units) duration(raw float64) float64 {
	return raw / u.ClockDivisor
}

func (u Units) creationTime(raw float64) float64 {
	return raw/u.ClockDivisor - u.StartOffset
}

// Options configures a Builder.
type Options struct {
	Units   Units
	TaskRef RefStyle
	// Jobs bounds the number of tasks whose records are parsed concurrently.
	// Values below 1 mean 1.
	Jobs int
}
