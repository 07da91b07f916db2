// Package services persists completed simulation runs.
//
// A run's report is flattened into one RunRecord per scenario so stored
// results can be listed and compared without re-parsing nested reports.
// MemoryStore backs tests and standalone operation; PostgresStore persists
// records across restarts.
package services
