// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package trace holds the in-memory model of a dispatch trace: the tasks known
// from the descriptor map, the dispatch records attributed to them by the event
// log, and the per-task summary derived once all records are known.
//
// Why a separate model package?
//
// The registry, the trace builder, the location tree and the reporter all work
// on the same Task values. Keeping the types and their invariants here lets
// each stage be tested on its own while the rules that make a trace consistent
// live in one place:
//
//  1. Records are appended in log order and carry a dispatch counter that must
//     grow by exactly one. A gap or repeat means the log was reordered,
//     duplicated or truncated, and the numbers derived from it would be wrong.
//
//  2. Start and wait times are derived at append time from the previous record
//     of the same task, so they never depend on records of other tasks.
//
//  3. A task without records was registered but never dispatched. It has no
//     summary and is left out of every total.
package trace
