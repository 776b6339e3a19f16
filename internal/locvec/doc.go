// internal/locvec/doc.go

/*
Package locvec decodes location vectors, the strings the runtime uses to
describe where a task sits in the execution topology.

A location vector is a colon-separated list of segments, e.g. `run7:p0:b1:i`.
The first segment is a prefix (for example a run identifier) and carries no
position; it is discarded. Every following segment is a topology dimension
letter, optionally followed by a non-negative index. A letter without an
index is a wildcard meaning "any index at this level".

This package centralizes the segment grammar so the registry and the location
tree agree on how positions are spelled and ordered.
*/
package locvec
