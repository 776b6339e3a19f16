// Package report renders the result of a run: the location tree followed by
// one summary block per task group, either as plain text or as a YAML
// document carrying the same information.
package report
