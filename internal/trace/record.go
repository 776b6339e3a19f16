// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines a single dispatch record, one line of the event log after
// it has been attributed to its task and converted to seconds.
package trace

// DestructionState is the state tag marking the record on which a task was destroyed.
const DestructionState = "Z"

// Record is one dispatch of a task. All times are in seconds.
type Record struct {
	// Seq is the dispatch counter reported by the runtime, starting at 1.
	Seq int
	// End is the absolute time the dispatch finished.
	End float64
	// Elapsed is how long the dispatch ran.
	Elapsed float64
	// State is the state tag, stored verbatim.
	State string
	// Creation is the task creation time, valid only if HasCreation is set.
	Creation    float64
	HasCreation bool
	// Streams counts the bracketed stream metadata groups; their contents are dropped.
	Streams int

	// Start and Wait are derived when the record is appended to its task.
	Start float64
	Wait  float64
}

// IsDestruction reports whether the record carries the destruction tag.
func (r *Record) IsDestruction() bool {
	return r.State == DestructionState
}
