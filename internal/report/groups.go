package report

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/etreport/internal/registry"
	"github.com/specialistvlad/etreport/internal/trace"
)

// GroupSummary is a report group reduced to its realized members.
type GroupSummary struct {
	registry.Group
	// Realized holds the members with a summary, ascending id.
	Realized []*trace.Task
	Total    float64
	// Mean is Total divided by the number of realized members.
	Mean float64
}

// Title names the group the way its footer line does, e.g. `solve @2`.
func (g GroupSummary) Title() string {
	if g.PerWorker {
		return fmt.Sprintf("%s @%d", g.Name, g.Worker)
	}
	return g.Name
}

// Summaries returns the groups the report prints, in print order. Groups
// without a realized member are left out, as are internal groups when
// opts.ExcludeInternal is set.
func Summaries(reg *registry.Registry, opts Options) []GroupSummary {
	var out []GroupSummary
	for _, g := range reg.GroupList(opts.PerWorker) {
		if opts.ExcludeInternal && opts.InternalMarker != "" && strings.HasPrefix(g.Name, opts.InternalMarker) {
			continue
		}

		gs := GroupSummary{Group: g}
		for _, task := range g.Tasks {
			if task.Summary == nil {
				continue
			}
			gs.Realized = append(gs.Realized, task)
			gs.Total += task.Summary.Total
		}
		if len(gs.Realized) == 0 {
			continue
		}
		gs.Mean = gs.Total / float64(len(gs.Realized))
		out = append(out, gs)
	}
	return out
}
