/*
Package builder reconstructs the per-task dispatch traces from the event log.
It is the bridge between the raw log produced by the runtime and the Task
values owned by the registry.

Ingestion is a two-step process:

 1. Resolution: the log is read line by line, in order. Informational lines
    (task reference `***`) and blank lines are dropped; every other line is
    attributed to its task through the registry. A reference to an id the
    registry does not know is fatal.

 2. Record construction: the lines of each task are tokenized into dispatch
    records and appended to the task in their original order. The dispatch
    counter is checked on every append, so a reordered, duplicated or missing
    line surfaces as a sequence violation instead of a silently wrong total.
    Tasks are independent of one another, which lets this step run on several
    goroutines; the reported error is always the one a sequential run would
    have hit first.

Once every input has been ingested, Summarize derives the per-task statistics.
*/
package builder
