package report

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/etreport/internal/loctree"
	"github.com/specialistvlad/etreport/internal/registry"
	"github.com/specialistvlad/etreport/internal/trace"
)

// Document is the YAML form of a report.
type Document struct {
	Tree   NodeDoc    `yaml:"tree"`
	Groups []GroupDoc `yaml:"groups"`
}

// NodeDoc is one location tree node.
type NodeDoc struct {
	Label    string          `yaml:"label"`
	Total    float64         `yaml:"total"`
	Workers  map[int]float64 `yaml:"workers,omitempty"`
	Tasks    []TaskDoc       `yaml:"tasks,omitempty"`
	Children []NodeDoc       `yaml:"children,omitempty"`
}

// TaskDoc is one summarized task.
type TaskDoc struct {
	ID         int     `yaml:"id"`
	Worker     int     `yaml:"worker"`
	Location   string  `yaml:"location"`
	Name       string  `yaml:"name"`
	Dispatches int     `yaml:"disp"`
	Total      float64 `yaml:"total"`
	Mean       float64 `yaml:"avg"`
	TotalWait  float64 `yaml:"ttbd"`
	MeanWait   float64 `yaml:"mtbd"`

	CreatedAt   *float64 `yaml:"created_at,omitempty"`
	DestroyedAt *float64 `yaml:"destroyed_at,omitempty"`
}

// GroupDoc is one summary block.
type GroupDoc struct {
	Name   string    `yaml:"name"`
	Worker *int      `yaml:"worker,omitempty"`
	Tasks  []TaskDoc `yaml:"tasks"`
	Total  float64   `yaml:"total"`
	Mean   float64   `yaml:"avg"`
}

// NewDocument builds the YAML form of the report.
func NewDocument(reg *registry.Registry, opts Options) Document {
	doc := Document{Tree: nodeDoc(reg.Tree.Root), Groups: []GroupDoc{}}
	for _, g := range Summaries(reg, opts) {
		gd := GroupDoc{Name: g.Name, Total: g.Total, Mean: g.Mean}
		if g.PerWorker {
			worker := g.Worker
			gd.Worker = &worker
		}
		for _, task := range g.Realized {
			gd.Tasks = append(gd.Tasks, taskDoc(task))
		}
		doc.Groups = append(doc.Groups, gd)
	}
	return doc
}

func nodeDoc(n *loctree.Node) NodeDoc {
	nd := NodeDoc{Label: "ROOT", Total: n.Aggregate.Total}
	if !n.IsRoot() {
		nd.Label = n.Label.String()
	}
	if len(n.Aggregate.PerWorker) > 0 {
		nd.Workers = make(map[int]float64, len(n.Aggregate.PerWorker))
		for w, v := range n.Aggregate.PerWorker {
			nd.Workers[w] = v
		}
	}
	for _, task := range n.Leaves() {
		if task.Summary != nil {
			nd.Tasks = append(nd.Tasks, taskDoc(task))
		}
	}
	for _, c := range n.Children() {
		nd.Children = append(nd.Children, nodeDoc(c))
	}
	return nd
}

func taskDoc(task *trace.Task) TaskDoc {
	s := task.Summary
	td := TaskDoc{
		ID:         task.ID,
		Worker:     task.Worker,
		Location:   task.Location,
		Name:       task.Name,
		Dispatches: s.Dispatches,
		Total:      s.Total,
		Mean:       s.Mean,
		TotalWait:  s.TotalWait,
		MeanWait:   s.MeanWait,
	}
	if task.Destroyed {
		destroyed := task.DestroyedAt
		td.DestroyedAt = &destroyed
		if task.HasCreation {
			created := task.CreatedAt
			td.CreatedAt = &created
		}
	}
	return td
}

func writeYAML(w io.Writer, reg *registry.Registry, opts Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(reg, opts)); err != nil {
		return err
	}
	return enc.Close()
}
