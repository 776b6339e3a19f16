package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/etreport/internal/config"
	"github.com/specialistvlad/etreport/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL settings loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// unitVariables name the divisors that convert a raw clock value to seconds,
// so a settings file can say `clock_divisor = ns`.
var unitVariables = map[string]cty.Value{
	"s":  cty.NumberIntVal(1),
	"ms": cty.NumberIntVal(1_000),
	"us": cty.NumberIntVal(1_000_000),
	"ns": cty.NumberIntVal(1_000_000_000),
}

// EvalContext returns the evaluation context settings expressions run in.
func EvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{Variables: unitVariables}
}

// attributes maps every settings file attribute to the field it binds to.
func attributes(s *config.Settings) map[string]any {
	return map[string]any{
		"clock_divisor":     &s.ClockDivisor,
		"timestamp_divisor": &s.TimestampDivisor,
		"start_offset":      &s.StartOffset,
		"task_ref":          &s.TaskRef,
		"group_by":          &s.GroupBy,
		"exclude_internal":  &s.ExcludeInternal,
		"internal_marker":   &s.InternalMarker,
		"format":            &s.Format,
		"jobs":              &s.Jobs,
	}
}

// schema lists the accepted attributes. Anything else in the file, including
// any block, is reported by HCL as unsupported.
func schema(targets map[string]any) *hcl.BodySchema {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	s := &hcl.BodySchema{}
	for _, name := range names {
		s.Attributes = append(s.Attributes, hcl.AttributeSchema{Name: name})
	}
	return s
}

// Load parses the settings file at path and overlays the attributes it sets
// onto s. The result is not validated here.
func (l *Loader) Load(ctx context.Context, path string, s *config.Settings) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL settings loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	targets := attributes(s)
	content, diags := file.Body.Content(schema(targets))
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	evalCtx := EvalContext()
	names := make([]string, 0, len(content.Attributes))
	for name := range content.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		val, diags := content.Attributes[name].Expr.Value(evalCtx)
		if diags.HasErrors() {
			return fmt.Errorf("failed to evaluate '%s' in %s: %w", name, path, diags)
		}
		if err := decode(ctx, val, targets[name]); err != nil {
			return fmt.Errorf("failed to decode '%s' in %s: %w", name, path, err)
		}
	}

	logger.Debug("HCL settings loading complete.", "path", path, "attributes", names)
	return nil
}
