// Package gradebook persists grading runs in a local SQLite database so an
// instructor can review submission history after the fact.
package gradebook

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // driver: sqlite

	"github.com/swaigcheck/swaigcheck/pkg/rubric"
)

var ErrNotFound = errors.New("grading run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  submission TEXT NOT NULL,
  rubric TEXT NOT NULL,
  total INTEGER NOT NULL,
  max_points INTEGER NOT NULL,
  passed INTEGER NOT NULL,
  items_json TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
`

// Record is one persisted grading run.
type Record struct {
	ID         string              `json:"id"`
	Submission string              `json:"submission"`
	Rubric     string              `json:"rubric"`
	Total      int                 `json:"total"`
	MaxPoints  int                 `json:"maxPoints"`
	Passed     bool                `json:"passed"`
	Items      []rubric.ItemResult `json:"items"`
	CreatedAt  time.Time           `json:"createdAt"`
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) a gradebook database and ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open gradebook: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to gradebook: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure gradebook schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record persists a grading result and returns the new run id.
func (s *Store) Record(ctx context.Context, result *rubric.GradingResult) (string, error) {
	itemsJSON, err := json.Marshal(result.Items)
	if err != nil {
		return "", fmt.Errorf("failed to encode item results: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, submission, rubric, total, max_points, passed, items_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, result.Submission, result.Rubric, result.Total, result.MaxPoints,
		boolToInt(result.Passed), string(itemsJSON), time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record grading run: %w", err)
	}

	return id, nil
}

// List returns the most recent grading runs, newest first. A limit of 0
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, submission, rubric, total, max_points, passed, items_json, created_at
	          FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list grading runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

// Get returns the grading run with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, submission, rubric, total, max_points, passed, items_json, created_at
		 FROM runs WHERE id = ?`, id)

	record, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return record, nil
}

func scanRecord(scan func(...any) error) (*Record, error) {
	var record Record
	var passed int
	var itemsJSON string
	var createdAt int64

	err := scan(&record.ID, &record.Submission, &record.Rubric, &record.Total,
		&record.MaxPoints, &passed, &itemsJSON, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan grading run: %w", err)
	}

	record.Passed = passed != 0
	record.CreatedAt = time.Unix(createdAt, 0).UTC()

	if err := json.Unmarshal([]byte(itemsJSON), &record.Items); err != nil {
		return nil, fmt.Errorf("failed to decode item results: %w", err)
	}

	return &record, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
