// Package sqlite archives finished runs in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound reports a run id the archive does not hold.
var ErrNotFound = errors.New("run not found")

// Seeds are stored as decimal text because they span the full uint64 range,
// which SQLite integers do not. A NULL r0_hat stands for an undefined
// estimate.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	seed        TEXT NOT NULL,
	r0          REAL NOT NULL,
	r0_hat      REAL,
	population  INTEGER NOT NULL,
	stop_reason TEXT NOT NULL,
	weekly      TEXT NOT NULL
);`

type Store struct {
	db *sql.DB
}

// Open opens or creates the archive at path and ensures its schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// RunRecord is one archived simulation result.
type RunRecord struct {
	ID         string
	CreatedAt  time.Time
	Seed       uint64
	R0         float64
	R0Hat      float64 // NaN when the estimate was undefined
	Population int
	StopReason string
	Weekly     []int
}

// SaveRun archives a run and returns its id, assigning a fresh one when the
// record has none.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	weekly, err := json.Marshal(rec.Weekly)
	if err != nil {
		return "", fmt.Errorf("encode weekly counts: %w", err)
	}
	var r0hat any
	if !math.IsNaN(rec.R0Hat) {
		r0hat = rec.R0Hat
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, seed, r0, r0_hat, population, stop_reason, weekly)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.Format(time.RFC3339Nano),
		strconv.FormatUint(rec.Seed, 10),
		rec.R0,
		r0hat,
		rec.Population,
		rec.StopReason,
		string(weekly),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return rec.ID, nil
}

// GetRun returns one archived run by id.
func (s *Store) GetRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, seed, r0, r0_hat, population, stop_reason, weekly
		FROM runs WHERE id = ?`, id)

	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// ListRuns returns up to limit archived runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, seed, r0, r0_hat, population, stop_reason, weekly
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		rec     RunRecord
		created string
		seed    string
		r0hat   sql.NullFloat64
		weekly  string
	)
	if err := row.Scan(&rec.ID, &created, &seed, &rec.R0, &r0hat, &rec.Population, &rec.StopReason, &weekly); err != nil {
		return RunRecord{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return RunRecord{}, fmt.Errorf("parse created_at: %w", err)
	}
	rec.CreatedAt = t

	rec.Seed, err = strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return RunRecord{}, fmt.Errorf("parse seed: %w", err)
	}

	rec.R0Hat = math.NaN()
	if r0hat.Valid {
		rec.R0Hat = r0hat.Float64
	}

	if err := json.Unmarshal([]byte(weekly), &rec.Weekly); err != nil {
		return RunRecord{}, fmt.Errorf("decode weekly counts: %w", err)
	}
	return rec, nil
}
