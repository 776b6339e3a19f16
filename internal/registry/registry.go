package registry

import (
	"sort"

	"github.com/specialistvlad/etreport/internal/loctree"
	"github.com/specialistvlad/etreport/internal/trace"
)

// WorkerKey identifies a group of tasks sharing a name and a worker.
type WorkerKey struct {
	Name   string
	Worker int
}

// Registry holds the task index, the name groupings and the location tree for
// a single run.
type Registry struct {
	Tasks        map[int]*trace.Task
	Groups       map[string][]int
	WorkerGroups map[WorkerKey][]int
	Tree         *loctree.Tree
}

// New creates an empty registry whose tree aggregates in the given mode.
func New(mode loctree.Mode) *Registry {
	return &Registry{
		Tasks:        make(map[int]*trace.Task),
		Groups:       make(map[string][]int),
		WorkerGroups: make(map[WorkerKey][]int),
		Tree:         loctree.New(mode),
	}
}

// Add indexes a task, groups it and attaches it to the location tree.
func (r *Registry) Add(task *trace.Task) error {
	if _, exists := r.Tasks[task.ID]; exists {
		return trace.NewError(trace.ErrDuplicateTaskID, "task %d already registered", task.ID)
	}
	if _, err := r.Tree.InsertVector(task.Location, task); err != nil {
		return trace.NewError(trace.ErrMalformedDescriptor, "task %d: %v", task.ID, err)
	}

	r.Tasks[task.ID] = task
	r.Groups[task.Name] = append(r.Groups[task.Name], task.ID)
	wk := WorkerKey{Name: task.Name, Worker: task.Worker}
	r.WorkerGroups[wk] = append(r.WorkerGroups[wk], task.ID)
	return nil
}

// Lookup returns the task with the given id.
func (r *Registry) Lookup(id int) (*trace.Task, bool) {
	t, ok := r.Tasks[id]
	return t, ok
}

// IDs returns all task ids in ascending order.
func (r *Registry) IDs() []int {
	ids := make([]int, 0, len(r.Tasks))
	for id := range r.Tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Realized returns the number of tasks with at least one record.
func (r *Registry) Realized() int {
	n := 0
	for _, t := range r.Tasks {
		if t.Realized() {
			n++
		}
	}
	return n
}
