// Package registry holds every task known from the descriptor map.
//
// The Registry is the owner of all trace.Task values for a run. Loading it is
// the first phase of the pipeline: each descriptor line becomes a Task, the
// task is indexed by id, grouped by name (and by name and worker), and attached
// as a leaf of the location tree at the position its location vector decodes
// to. Later phases fill in records and summaries but never add or remove tasks.
package registry
