// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the per-task statistics computed once all records of a
// task are known.
package trace

// Summary holds the derived statistics of a realized task.
type Summary struct {
	Dispatches int
	Total      float64 // sum of elapsed times
	Mean       float64 // Total / Dispatches
	TotalWait  float64 // sum of wait times
	MeanWait   float64 // TotalWait / (Dispatches-1), 0 for a single dispatch
}

// summarize reduces a record sequence. It must not be called with no records.
func summarize(records []*Record) *Summary {
	s := &Summary{Dispatches: len(records)}
	for _, rec := range records {
		s.Total += rec.Elapsed
		s.TotalWait += rec.Wait
	}
	s.Mean = s.Total / float64(s.Dispatches)
	if s.Dispatches > 1 {
		s.MeanWait = s.TotalWait / float64(s.Dispatches-1)
	}
	return s
}
