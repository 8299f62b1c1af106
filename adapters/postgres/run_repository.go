package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"autolyze/domain/core"
	"autolyze/domain/profile"
	"autolyze/ports"
)

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new profile run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// Connect opens a postgres connection for the run store
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to run store: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the profile_runs table when missing
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS profile_runs (
		id         TEXT PRIMARY KEY,
		source     TEXT NOT NULL,
		columns    INT NOT NULL DEFAULT 0,
		complete   BOOLEAN NOT NULL DEFAULT FALSE,
		report     JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure run store schema: %w", err)
	}
	return nil
}

// Save inserts a completed profile run
func (r *runRepository) Save(ctx context.Context, report *profile.Report) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `INSERT INTO profile_runs (id, source, columns, complete, report, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query,
		report.RunID.String(), report.Source, len(report.Profiles),
		report.Complete(), reportJSON, report.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile run: %w", err)
	}
	return nil
}

// GetByID retrieves a stored profile run by its ID
func (r *runRepository) GetByID(ctx context.Context, id core.RunID) (*profile.Report, error) {
	query := `SELECT report FROM profile_runs WHERE id = $1`

	var reportJSON []byte
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(&reportJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("profile run", id.String())
		}
		return nil, fmt.Errorf("failed to get profile run: %w", err)
	}

	var report profile.Report
	if err := json.Unmarshal(reportJSON, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// List returns stored run summaries, newest first
func (r *runRepository) List(ctx context.Context, limit, offset int) ([]ports.RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, source, columns, complete, created_at
		FROM profile_runs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query profile runs: %w", err)
	}
	defer rows.Close()

	var summaries []ports.RunSummary
	for rows.Next() {
		var (
			s         ports.RunSummary
			id        string
			createdAt sql.NullTime
		)
		if err := rows.Scan(&id, &s.Source, &s.Columns, &s.Complete, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile run: %w", err)
		}
		s.ID = core.RunID(id)
		if createdAt.Valid {
			s.CreatedAt = core.NewTimestamp(createdAt.Time)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
