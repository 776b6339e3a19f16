package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Reference styles accepted by Settings.TaskRef.
const (
	TaskRefPositional = "positional"
	TaskRefMarker     = "tid"
)

// Grouping modes accepted by Settings.GroupBy.
const (
	GroupByName       = "name"
	GroupByNameWorker = "name_worker"
)

// Report formats accepted by Settings.Format.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// MaxJobs bounds Settings.Jobs.
const MaxJobs = 256

// Settings is the unified representation of everything that changes how a
// run interprets its inputs and renders its report.
type Settings struct {
	// ClockDivisor converts `et` and `creat` values to seconds.
	ClockDivisor float64 `yaml:"clock_divisor" validate:"gt=0"`
	// TimestampDivisor converts end timestamps to seconds.
	TimestampDivisor float64 `yaml:"timestamp_divisor" validate:"gt=0"`
	// StartOffset is subtracted from end and creation times after conversion.
	StartOffset float64 `yaml:"start_offset"`

	TaskRef string `yaml:"task_ref" validate:"oneof=positional tid"`
	GroupBy string `yaml:"group_by" validate:"oneof=name name_worker"`

	ExcludeInternal bool   `yaml:"exclude_internal"`
	InternalMarker  string `yaml:"internal_marker" validate:"required_if=ExcludeInternal true,nospace"`

	Format string `yaml:"format" validate:"oneof=text yaml"`
	Jobs   int    `yaml:"jobs" validate:"gte=1,lte=256"`
}

// Default returns the settings used when neither a settings file nor a flag
// says otherwise.
func Default() Settings {
	return Settings{
		ClockDivisor:     1e9,
		TimestampDivisor: 1,
		TaskRef:          TaskRefPositional,
		GroupBy:          GroupByName,
		InternalMarker:   "<",
		Format:           FormatText,
		Jobs:             1,
	}
}

// PerWorker reports whether groups and tree aggregates are split by worker.
func (s *Settings) PerWorker() bool {
	return s.GroupBy == GroupByNameWorker
}

var settingsValidate *validator.Validate

func init() {
	settingsValidate = validator.New()

	// The internal marker is matched against a single descriptor field.
	_ = settingsValidate.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) < 0
	})
}

// Validate checks every field against its constraints.
func (s *Settings) Validate() error {
	err := settingsValidate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid settings: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
}

// describe renders a validation failure using the settings file attribute name.
func describe(fe validator.FieldError) string {
	name := attributeNames[fe.Field()]
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", name, fe.Param(), fe.Value())
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 1 and %d, got %v", name, MaxJobs, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "required_if":
		return fmt.Sprintf("%s is required when exclude_internal is set", name)
	case "nospace":
		return fmt.Sprintf("%s must be a single word, got %q", name, fe.Value())
	default:
		return fmt.Sprintf("%s failed the %q check", name, fe.Tag())
	}
}

var attributeNames = map[string]string{
	"ClockDivisor":     "clock_divisor",
	"TimestampDivisor": "timestamp_divisor",
	"StartOffset":      "start_offset",
	"TaskRef":          "task_ref",
	"GroupBy":          "group_by",
	"ExcludeInternal":  "exclude_internal",
	"InternalMarker":   "internal_marker",
	"Format":           "format",
	"Jobs":             "jobs",
}
