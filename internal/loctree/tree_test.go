package loctree

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/specialistvlad/etreport/internal/locvec"
	"github.com/specialistvlad/etreport/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSummarized creates a task whose single dispatch ran for total seconds.
func newSummarized(t *testing.T, id int, vector, name string, worker int, total float64) *trace.Task {
	t.Helper()
	task := trace.NewTask(id, vector, name, worker)
	require.NoError(t, task.Append(&trace.Record{Seq: 1, End: 100, Elapsed: total, State: "R"}))
	require.True(t, task.Summarize())
	return task
}

func mustParse(t *testing.T, vector string) locvec.Path {
	t.Helper()
	path, err := locvec.Parse(vector)
	require.NoError(t, err)
	return path
}

type placement struct {
	vector string
	task   *trace.Task
}

func fixture(t *testing.T) []placement {
	t.Helper()
	unrealized := trace.NewTask(4, ":p1", "idle", 0)
	return []placement{
		{":p0:b1", newSummarized(t, 1, ":p0:b1", "workerA", 0, 2.5)},
		{":p0:b", newSummarized(t, 2, ":p0:b", "workerB", 1, 1.0)},
		{":p1:b1", newSummarized(t, 3, ":p1:b1", "workerA", 1, 0.5)},
		{":p1", unrealized},
	}
}

func build(t *testing.T, mode Mode, items []placement) *Tree {
	t.Helper()
	tree := New(mode)
	for _, it := range items {
		_, err := tree.InsertVector(it.vector, it.task)
		require.NoError(t, err)
	}
	tree.Synthesize()
	return tree
}

func TestInsert_CreatesWildcardSiblings(t *testing.T) {
	tree := New(Scalar)
	task := trace.NewTask(1, ":p0:b1", "workerA", 0)
	node, err := tree.InsertVector(":p0:b1", task)
	require.NoError(t, err)

	_, ok := tree.Root.Child(locvec.NewLabel('p'))
	assert.True(t, ok, "root must hold p*")
	p0, ok := tree.Root.Child(locvec.NewIndexedLabel('p', 0))
	require.True(t, ok, "root must hold p0")

	_, ok = p0.Child(locvec.NewLabel('b'))
	assert.True(t, ok, "p0 must hold b*")
	b1, ok := p0.Child(locvec.NewIndexedLabel('b', 1))
	require.True(t, ok, "p0 must hold b1")

	assert.Same(t, b1, node)
	assert.Equal(t, []*trace.Task{task}, b1.Leaves())
	assert.Len(t, tree.Root.Children(), 2)
}

func TestInsert_WildcardSegmentDescendsDirectly(t *testing.T) {
	tree := New(Scalar)
	task := trace.NewTask(9, ":p:b2", "x", 0)
	_, err := tree.InsertVector(":p:b2", task)
	require.NoError(t, err)

	require.Len(t, tree.Root.Children(), 1, "a wildcard segment creates no extra sibling")
	pStar := tree.Root.Children()[0]
	assert.True(t, pStar.Label.IsWildcard())

	node, ok := tree.Lookup(mustParse(t, ":p:b2"))
	require.True(t, ok)
	assert.Equal(t, []*trace.Task{task}, node.Leaves())
}

func TestInsert_SharedPathSharesNode(t *testing.T) {
	tree := New(Scalar)
	a := trace.NewTask(1, ":p0", "a", 0)
	b := trace.NewTask(2, "other:p0", "b", 0)
	na := tree.Insert(mustParse(t, ":p0"), a)
	nb := tree.Insert(mustParse(t, "other:p0"), b)
	assert.Same(t, na, nb)
	assert.Len(t, na.Leaves(), 2)
}

func TestInsertVector_InvalidVector(t *testing.T) {
	tree := New(Scalar)
	_, err := tree.InsertVector(":p0::b", trace.NewTask(1, ":p0::b", "a", 0))
	require.Error(t, err)
}

func TestSynthesize_SumsChildrenAndLeaves(t *testing.T) {
	tree := build(t, Scalar, fixture(t))

	assert.InDelta(t, 4.0, tree.Root.Aggregate.Total, 1e-9, "root equals the sum of all realized tasks")
	assert.Nil(t, tree.Root.Aggregate.PerWorker)

	var check func(n *Node)
	check = func(n *Node) {
		sum := 0.0
		for _, c := range n.Children() {
			check(c)
			sum += c.Aggregate.Total
		}
		for _, l := range n.Leaves() {
			sum += l.Total()
		}
		assert.InDelta(t, sum, n.Aggregate.Total, 1e-9, "node %s", n)
	}
	check(tree.Root)

	empty, ok := tree.Lookup(mustParse(t, ":p"))
	require.True(t, ok)
	assert.Zero(t, empty.Aggregate.Total)
}

func TestSynthesize_OrderIndependentAndIdempotent(t *testing.T) {
	items := fixture(t)
	reference := build(t, Scalar, items)

	var snapshot func(tree *Tree) map[string]float64
	snapshot = func(tree *Tree) map[string]float64 {
		out := make(map[string]float64)
		tree.Walk(func(path locvec.Path, n *Node) {
			out[path.String()] = n.Aggregate.Total
		})
		return out
	}
	want := snapshot(reference)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]placement(nil), items...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, want, snapshot(build(t, Scalar, shuffled)))
	}

	reference.Synthesize()
	reference.Synthesize()
	assert.Equal(t, want, snapshot(reference), "re-running synthesis must not change aggregates")
}

func TestSynthesize_PerWorker(t *testing.T) {
	tree := build(t, PerWorker, fixture(t))

	assert.Equal(t, map[int]float64{0: 2.5, 1: 1.5}, tree.Root.Aggregate.PerWorker)

	p1, ok := tree.Lookup(mustParse(t, ":p1"))
	require.True(t, ok)
	assert.Equal(t, map[int]float64{1: 0.5}, p1.Aggregate.PerWorker, "unrealized worker 0 task adds nothing")

	pStar, ok := tree.Lookup(mustParse(t, ":p"))
	require.True(t, ok)
	assert.Empty(t, pStar.Aggregate.PerWorker)
}

func TestRender(t *testing.T) {
	testCases := []struct {
		name     string
		mode     Mode
		expected string
	}{
		{
			name: "scalar",
			mode: Scalar,
			expected: `[ ROOT ] 4.000000
  [ p* ] 0.000000
  [ p0 ] 3.500000
    [ b* ] 1.000000
      Task 2 @1 (:p0:b workerB) 1.000000
    [ b1 ] 2.500000
      Task 1 @0 (:p0:b1 workerA) 2.500000
  [ p1 ] 0.500000
    [ b* ] 0.000000
    [ b1 ] 0.500000
      Task 3 @1 (:p1:b1 workerA) 0.500000
`,
		},
		{
			name: "per worker",
			mode: PerWorker,
			expected: `[ ROOT ] 4.000000 | @0 2.500000 @1 1.500000
  [ p* ] 0.000000
  [ p0 ] 3.500000 | @0 2.500000 @1 1.000000
    [ b* ] 1.000000 | @1 1.000000
      Task 2 @1 (:p0:b workerB) 1.000000
    [ b1 ] 2.500000 | @0 2.500000
      Task 1 @0 (:p0:b1 workerA) 2.500000
  [ p1 ] 0.500000 | @1 0.500000
    [ b* ] 0.000000
    [ b1 ] 0.500000 | @1 0.500000
      Task 3 @1 (:p1:b1 workerA) 0.500000
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tree := build(t, tc.mode, fixture(t))
			var out bytes.Buffer
			require.NoError(t, tree.Render(&out))
			assert.Equal(t, tc.expected, out.String())
		})
	}
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "scalar", Scalar.String())
	assert.Equal(t, "per-worker", PerWorker.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
