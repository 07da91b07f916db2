package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/ruteri/go-padnet/padalloc"
)

// PostgresStore implements ResultStore with PostgreSQL persistence.
type PostgresStore struct {
	db *sql.DB
}

// PostgresConfig contains PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// ConnectionString returns the PostgreSQL connection string.
func (c *PostgresConfig) ConnectionString() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslMode)
}

// NewPostgresStore connects to the database and runs the migration.
func NewPostgresStore(config *PostgresConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", config.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS simulation_runs (
		id BIGSERIAL PRIMARY KEY,
		policy VARCHAR(32) NOT NULL,
		pad_count INTEGER NOT NULL,
		gap INTEGER NOT NULL,
		executions INTEGER NOT NULL,
		seed BIGINT NOT NULL,
		scenario VARCHAR(64) NOT NULL,
		active_parties INTEGER NOT NULL,
		avg_wasted DOUBLE PRECISION NOT NULL,
		min_wasted INTEGER NOT NULL,
		max_wasted INTEGER NOT NULL,
		avg_messages DOUBLE PRECISION NOT NULL,
		baseline_wasted DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_runs_policy ON simulation_runs(policy);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON simulation_runs(created_at);
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveRecord inserts the record and fills in its assigned ID and creation
// time.
func (s *PostgresStore) SaveRecord(ctx context.Context, record *RunRecord) error {
	query := `
	INSERT INTO simulation_runs
		(policy, pad_count, gap, executions, seed, scenario, active_parties,
		 avg_wasted, min_wasted, max_wasted, avg_messages, baseline_wasted)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id, created_at
	`

	return s.db.QueryRowContext(ctx, query,
		string(record.Policy),
		record.PadCount,
		record.Gap,
		record.Executions,
		record.Seed,
		record.Scenario,
		record.ActiveParties,
		record.AvgWasted,
		record.MinWasted,
		record.MaxWasted,
		record.AvgMessages,
		record.Baseline,
	).Scan(&record.ID, &record.CreatedAt)
}

// ListRecords retrieves all stored records, newest first.
func (s *PostgresStore) ListRecords(ctx context.Context) ([]*RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, policy, pad_count, gap, executions, seed, scenario,
		       active_parties, avg_wasted, min_wasted, max_wasted,
		       avg_messages, baseline_wasted, created_at
		FROM simulation_runs
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*RunRecord
	for rows.Next() {
		var (
			record RunRecord
			policy string
		)
		if err := rows.Scan(
			&record.ID,
			&policy,
			&record.PadCount,
			&record.Gap,
			&record.Executions,
			&record.Seed,
			&record.Scenario,
			&record.ActiveParties,
			&record.AvgWasted,
			&record.MinWasted,
			&record.MaxWasted,
			&record.AvgMessages,
			&record.Baseline,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		record.Policy = padalloc.Policy(policy)
		result = append(result, &record)
	}

	return result, rows.Err()
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
