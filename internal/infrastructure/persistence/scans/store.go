package scans

import (
	"database/sql"
	"fmt"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/schemascope/schemascope-go/internal/domain/entities/usage"
)

// Store persists completed scan reports for one project.
type Store struct {
	db *Database
}

// NewStore creates a scan store on an open database.
func NewStore(db *Database) *Store {
	return &Store{db: db}
}

// CreateTables ensures the scan history schema exists.
func (s *Store) CreateTables() error {
	_, err := s.db.Conn.Exec(`
		CREATE TABLE IF NOT EXISTS scans (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			partial INTEGER NOT NULL DEFAULT 0,
			summaries TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scans_project_started
			ON scans(project_id, started_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to create scans table: %w", err)
	}
	return nil
}

// SaveScan inserts or replaces one scan record.
func (s *Store) SaveScan(scan *usage.Scan) error {
	summaries, err := gojson.Marshal(scan.Summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal scan summaries: %w", err)
	}

	var finishedAt any
	if scan.FinishedAt != nil {
		finishedAt = scan.FinishedAt.UTC().Format(time.RFC3339Nano)
	}

	partial := 0
	if scan.Partial {
		partial = 1
	}

	_, err = s.db.Conn.Exec(
		`INSERT OR REPLACE INTO scans (id, project_id, started_at, finished_at, partial, summaries)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		scan.ID, scan.ProjectID, scan.StartedAt.UTC().Format(time.RFC3339Nano),
		finishedAt, partial, string(summaries),
	)
	if err != nil {
		return fmt.Errorf("failed to save scan %s: %w", scan.ID, err)
	}
	return nil
}

// GetScan returns one scan by ID, or nil when it does not exist.
func (s *Store) GetScan(id string) (*usage.Scan, error) {
	row := s.db.Conn.QueryRow(
		`SELECT id, project_id, started_at, finished_at, partial, summaries
		 FROM scans WHERE id = ?`, id)

	scan, err := scanRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return scan, err
}

// ListScans returns the most recent scans for a project, newest first.
func (s *Store) ListScans(projectID string, limit int) ([]*usage.Scan, error) {
	rows, err := s.db.Conn.Query(
		`SELECT id, project_id, started_at, finished_at, partial, summaries
		 FROM scans WHERE project_id = ?
		 ORDER BY started_at DESC LIMIT ?`, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var result []*usage.Scan
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, scan)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (*usage.Scan, error) {
	var (
		scan       usage.Scan
		startedAt  string
		finishedAt sql.NullString
		partial    int
		summaries  string
	)

	err := row.Scan(&scan.ID, &scan.ProjectID, &startedAt, &finishedAt, &partial, &summaries)
	if err != nil {
		return nil, err
	}

	scan.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
		scan.FinishedAt = &t
	}
	scan.Partial = partial != 0

	if err := gojson.Unmarshal([]byte(summaries), &scan.Summaries); err != nil {
		return nil, fmt.Errorf("failed to parse scan summaries: %w", err)
	}
	return &scan, nil
}
