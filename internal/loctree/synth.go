package loctree

// Synthesize computes the aggregate of every node bottom-up. Only summarized
// tasks contribute; unrealized leaves count as zero.
//
// Children and leaves are summed in sorted order so the floating point result
// does not depend on map iteration or insertion order.
func (t *Tree) Synthesize() {
	t.synthesize(t.Root)
}

func (t *Tree) synthesize(n *Node) {
	agg := Aggregate{}
	if t.mode == PerWorker {
		agg.PerWorker = make(map[int]float64)
	}

	for _, c := range n.Children() {
		t.synthesize(c)
		agg.Total += c.Aggregate.Total
		for _, w := range c.Aggregate.Workers() {
			agg.PerWorker[w] += c.Aggregate.PerWorker[w]
		}
	}

	for _, task := range n.Leaves() {
		if task.Summary == nil {
			continue
		}
		agg.Total += task.Summary.Total
		if agg.PerWorker != nil {
			agg.PerWorker[task.Worker] += task.Summary.Total
		}
	}

	n.Aggregate = agg
}
