package report

import (
	"fmt"
	"io"

	"github.com/specialistvlad/etreport/internal/config"
	"github.com/specialistvlad/etreport/internal/registry"
)

// Options controls what the report contains and how it is written.
type Options struct {
	// Format is config.FormatText or config.FormatYAML; empty means text.
	Format    string
	PerWorker bool

	ExcludeInternal bool
	InternalMarker  string
}

// Write renders the report of a summarized and synthesized registry to w.
func Write(w io.Writer, reg *registry.Registry, opts Options) error {
	switch opts.Format {
	case "", config.FormatText:
		return writeText(w, reg, opts)
	case config.FormatYAML:
		return writeYAML(w, reg, opts)
	default:
		return fmt.Errorf("unknown report format %q", opts.Format)
	}
}
