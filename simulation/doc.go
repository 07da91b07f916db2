// Package simulation drives Monte-Carlo experiments over the pad allocator.
//
// An execution builds a fresh allocator, picks a set of active parties and
// repeatedly claims pads for randomly chosen active ones until the first
// rejection ends the whole execution, then reports how many messages were
// sent and how many pads were wasted.
//
// The Runner repeats executions for three scenarios (one, two, and four
// active parties) and aggregates wasted-pad statistics against the naive
// static quarter-split baseline of 3n/4. Executions are spread across a
// bounded worker pool; each execution derives its own seed from the
// configured base seed, so a report is reproducible regardless of scheduling.
package simulation
