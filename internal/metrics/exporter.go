package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/specialistvlad/etreport/internal/loctree"
	"github.com/specialistvlad/etreport/internal/locvec"
	"github.com/specialistvlad/etreport/internal/registry"
	"github.com/specialistvlad/etreport/internal/report"
)

const namespace = "etreport"

// rootLocation labels the tree root, which has an empty path.
const rootLocation = ":"

// Exporter holds the gauges filled from one run.
type Exporter struct {
	locationSeconds       *prom.GaugeVec
	locationWorkerSeconds *prom.GaugeVec

	taskSeconds     *prom.GaugeVec
	taskWaitSeconds *prom.GaugeVec
	taskDispatches  *prom.GaugeVec

	groupSeconds *prom.GaugeVec
	phaseSeconds *prom.GaugeVec

	tasks *prom.GaugeVec
}

// NewExporter creates the gauges and registers them with reg.
func NewExporter(reg prom.Registerer) (*Exporter, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	e := &Exporter{
		locationSeconds: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "location_seconds",
			Help:      "Synthesized execution time per location tree node.",
		}, []string{"location"}),
		locationWorkerSeconds: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "location_worker_seconds",
			Help:      "Synthesized execution time per location tree node and worker.",
		}, []string{"location", "worker"}),
		taskSeconds: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "task_seconds",
			Help:      "Total elapsed time per realized task.",
		}, []string{"task", "name", "worker"}),
		taskWaitSeconds: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "task_wait_seconds",
			Help:      "Total time between dispatches per realized task.",
		}, []string{"task", "name", "worker"}),
		taskDispatches: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "task_dispatches",
			Help:      "Number of dispatches per realized task.",
		}, []string{"task", "name", "worker"}),
		groupSeconds: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "group_seconds",
			Help:      "Total elapsed time per report group.",
		}, []string{"group", "worker"}),
		phaseSeconds: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Wall-clock duration of each pipeline phase.",
		}, []string{"phase"}),
		tasks: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks",
			Help:      "Number of registered tasks by realization state.",
		}, []string{"state"}),
	}

	var err error
	for _, g := range []**prom.GaugeVec{
		&e.locationSeconds, &e.locationWorkerSeconds,
		&e.taskSeconds, &e.taskWaitSeconds, &e.taskDispatches,
		&e.groupSeconds, &e.phaseSeconds, &e.tasks,
	} {
		if *g, err = registerCollector(reg, *g); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Record sets the gauges from a synthesized registry and the report groups
// derived from it.
func (e *Exporter) Record(reg *registry.Registry, groups []report.GroupSummary) {
	reg.Tree.Walk(func(path locvec.Path, n *loctree.Node) {
		loc := rootLocation
		if len(path) > 0 {
			loc = path.String()
		}
		e.locationSeconds.WithLabelValues(loc).Set(n.Aggregate.Total)
		for _, w := range n.Aggregate.Workers() {
			e.locationWorkerSeconds.WithLabelValues(loc, strconv.Itoa(w)).Set(n.Aggregate.PerWorker[w])
		}
	})

	realized := 0
	for _, id := range reg.IDs() {
		task, _ := reg.Lookup(id)
		if task.Summary == nil {
			continue
		}
		realized++
		labels := []string{strconv.Itoa(task.ID), task.Name, strconv.Itoa(task.Worker)}
		e.taskSeconds.WithLabelValues(labels...).Set(task.Summary.Total)
		e.taskWaitSeconds.WithLabelValues(labels...).Set(task.Summary.TotalWait)
		e.taskDispatches.WithLabelValues(labels...).Set(float64(task.Summary.Dispatches))
	}
	e.tasks.WithLabelValues("realized").Set(float64(realized))
	e.tasks.WithLabelValues("unrealized").Set(float64(len(reg.Tasks) - realized))

	for _, g := range groups {
		worker := ""
		if g.PerWorker {
			worker = strconv.Itoa(g.Worker)
		}
		e.groupSeconds.WithLabelValues(g.Name, worker).Set(g.Total)
	}
}

// ObservePhase records how long a pipeline phase took.
func (e *Exporter) ObservePhase(phase string, d time.Duration) {
	e.phaseSeconds.WithLabelValues(phase).Set(d.Seconds())
}

// WriteTextfile writes every metric gathered from g to path atomically.
func WriteTextfile(path string, g prom.Gatherer) error {
	if err := prom.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
