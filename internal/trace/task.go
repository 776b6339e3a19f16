// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Task, the unit everything else is keyed on.
//
// A Task is created once from its descriptor line and is immutable afterwards,
// except for its record sequence and the values derived from it. Appending goes
// through Append so the dispatch counter and the derived wait times can never
// disagree with the order in which records arrived.
package trace

import "fmt"

// Task is a registered task and the trace reconstructed for it.
type Task struct {
	ID       int
	Location string // location vector as written in the descriptor map
	Name     string
	Worker   int

	Records []*Record
	// Summary is nil until Summarize has run on a realized task.
	Summary *Summary

	// Lifetime, known only once the destruction record has been seen.
	// CreatedAt is valid only if HasCreation is set; the runtime does not
	// always log a creation time.
	Destroyed   bool
	HasCreation bool
	CreatedAt   float64
	DestroyedAt float64

	lastCreation    float64
	hasLastCreation bool
}

// NewTask creates a task with an empty trace.
func NewTask(id int, location, name string, worker int) *Task {
	return &Task{
		ID:       id,
		Location: location,
		Name:     name,
		Worker:   worker,
	}
}

// Realized reports whether the task was dispatched at least once.
func (t *Task) Realized() bool {
	return len(t.Records) > 0
}

// Append validates the dispatch counter of rec, derives its start and wait
// times from the previous record and appends it.
func (t *Task) Append(rec *Record) error {
	if want := len(t.Records) + 1; rec.Seq != want {
		return NewError(ErrSequenceViolation, "task %d: expected disp %d, got %d", t.ID, want, rec.Seq)
	}

	rec.Start = rec.End - rec.Elapsed
	if n := len(t.Records); n > 0 {
		rec.Wait = rec.Start - t.Records[n-1].End
	} else {
		rec.Wait = 0
	}

	if rec.HasCreation {
		t.lastCreation = rec.Creation
		t.hasLastCreation = true
	}
	if rec.IsDestruction() {
		t.Destroyed = true
		t.DestroyedAt = rec.End
		if t.hasLastCreation {
			t.CreatedAt = t.lastCreation
			t.HasCreation = true
		}
	}

	t.Records = append(t.Records, rec)
	return nil
}

// Summarize computes the task summary. It reports false and leaves Summary nil
// for an unrealized task.
func (t *Task) Summarize() bool {
	if !t.Realized() {
		t.Summary = nil
		return false
	}
	t.Summary = summarize(t.Records)
	return true
}

// Total returns the summarized elapsed time, or 0 if the task has no summary.
func (t *Task) Total() float64 {
	if t.Summary == nil {
		return 0
	}
	return t.Summary.Total
}

// String renders the task the way it appears as a tree leaf.
func (t *Task) String() string {
	return fmt.Sprintf("Task %d @%d (%s %s) %.6f", t.ID, t.Worker, t.Location, t.Name, t.Total())
}
