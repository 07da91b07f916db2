package services

import (
	"context"
	"sync"
	"time"

	"github.com/ruteri/go-padnet/padalloc"
	"github.com/ruteri/go-padnet/simulation"
)

// RunRecord is one scenario's outcome from a completed Monte-Carlo run.
type RunRecord struct {
	ID int64 `json:"id"`

	Policy     padalloc.Policy `json:"policy"`
	PadCount   int             `json:"pad_count"`
	Gap        int             `json:"gap"`
	Executions int             `json:"executions"`
	Seed       int64           `json:"seed"`

	Scenario      string  `json:"scenario"`
	ActiveParties int     `json:"active_parties"`
	AvgWasted     float64 `json:"avg_wasted"`
	MinWasted     int     `json:"min_wasted"`
	MaxWasted     int     `json:"max_wasted"`
	AvgMessages   float64 `json:"avg_messages"`
	Baseline      float64 `json:"baseline_wasted"`

	CreatedAt time.Time `json:"created_at"`
}

// RecordsFromReport flattens a report into one record per scenario.
func RecordsFromReport(report *simulation.Report) []*RunRecord {
	records := make([]*RunRecord, 0, len(report.Scenarios))
	for _, sc := range report.Scenarios {
		records = append(records, &RunRecord{
			Policy:        report.Policy,
			PadCount:      report.PadCount,
			Gap:           report.Gap,
			Executions:    report.Executions,
			Seed:          report.Seed,
			Scenario:      sc.Scenario,
			ActiveParties: sc.ActiveParties,
			AvgWasted:     sc.AvgWasted,
			MinWasted:     sc.MinWasted,
			MaxWasted:     sc.MaxWasted,
			AvgMessages:   sc.AvgMessages,
			Baseline:      report.Baseline,
		})
	}
	return records
}

// ResultStore persists run records.
type ResultStore interface {
	// SaveRecord stores the record, assigning its ID and creation time.
	SaveRecord(ctx context.Context, record *RunRecord) error

	// ListRecords returns all stored records, newest first.
	ListRecords(ctx context.Context) ([]*RunRecord, error)

	Close() error
}

// MemoryStore implements ResultStore without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	records []*RunRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// SaveRecord stores a copy of the record in memory.
func (s *MemoryStore) SaveRecord(_ context.Context, record *RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = s.nextID
	record.CreatedAt = time.Now().UTC()
	s.nextID++

	stored := *record
	s.records = append(s.records, &stored)
	return nil
}

// ListRecords returns the stored records, newest first.
func (s *MemoryStore) ListRecords(_ context.Context) ([]*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*RunRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		stored := *s.records[i]
		result = append(result, &stored)
	}
	return result, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
