// Package loctree folds per-task execution times into a tree keyed by
// location in the execution topology.
//
// # Structure
//
// Every task is attached as a leaf at the node reached by walking its decoded
// location vector from the root. Whenever a concrete index is inserted, a
// wildcard sibling for the same dimension is created next to it:
//
//	[ ROOT ]
//	  [ p* ]          all places, aggregated
//	  [ p0 ]
//	    [ b* ]        all boxes of place 0
//	    [ b1 ]
//	      Task 1 ...
//
// The wildcard node is where tasks whose vector elides the index attach, and
// its subtree is reported at the same depth as the concrete indices.
//
// # Synthesis
//
// Synthesize performs one bottom-up pass. A node's total is the sum of its
// children's totals and the totals of the summarized tasks attached to it. In
// PerWorker mode the same sum is additionally kept per worker id. The pass
// recomputes everything from scratch, so calling it again after more
// insertions, or twice in a row, gives the same result as a single call on the
// final tree regardless of insertion order.
package loctree
