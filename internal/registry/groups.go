package registry

import (
	"sort"

	"github.com/specialistvlad/etreport/internal/trace"
)

// Group is a set of tasks reported together.
type Group struct {
	Name string
	// Worker is meaningful only when PerWorker is set.
	Worker    int
	PerWorker bool
	Tasks     []*trace.Task // ascending id
}

// GroupList returns the groups sorted by name, then worker. With perWorker set
// the tasks are grouped by (name, worker) instead of by name alone.
func (r *Registry) GroupList(perWorker bool) []Group {
	var groups []Group
	if perWorker {
		for key, ids := range r.WorkerGroups {
			groups = append(groups, Group{Name: key.Name, Worker: key.Worker, PerWorker: true, Tasks: r.resolve(ids)})
		}
	} else {
		for name, ids := range r.Groups {
			groups = append(groups, Group{Name: name, Tasks: r.resolve(ids)})
		}
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Name != groups[j].Name {
			return groups[i].Name < groups[j].Name
		}
		return groups[i].Worker < groups[j].Worker
	})
	return groups
}

func (r *Registry) resolve(ids []int) []*trace.Task {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	tasks := make([]*trace.Task, 0, len(sorted))
	for _, id := range sorted {
		tasks = append(tasks, r.Tasks[id])
	}
	return tasks
}
