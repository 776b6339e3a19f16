package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/etreport/internal/registry"
)

var separator = strings.Repeat("=", 53)

func writeText(w io.Writer, reg *registry.Registry, opts Options) error {
	if err := reg.Tree.Render(w); err != nil {
		return err
	}

	for _, g := range Summaries(reg, opts) {
		if _, err := fmt.Fprintln(w, separator); err != nil {
			return err
		}
		for _, task := range g.Realized {
			s := task.Summary
			_, err := fmt.Fprintf(w, "%s disp %d total %.6f, avg %.6f, ttbd %.6f, mtbd %.6f\n",
				task, s.Dispatches, s.Total, s.Mean, s.TotalWait, s.MeanWait)
			if err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "*** %s: total %.6f, avg %.6f\n", g.Title(), g.Total, g.Mean); err != nil {
			return err
		}
	}
	return nil
}
