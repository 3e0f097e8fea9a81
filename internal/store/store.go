// Package store handles SQLite persistence of the calculation history.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DavidDAndrews/ErastSieve/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for calculation records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS calculations (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			bound INTEGER NOT NULL,
			prime_count INTEGER NOT NULL,
			largest_prime INTEGER NOT NULL,
			elapsed_ns INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_ended_at ON calculations(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_calculations_bound ON calculations(bound);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertCalculation stores a completed calculation and returns its id.
func (s *Store) InsertCalculation(ctx context.Context, calc model.Calculation) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO calculations (started_at, ended_at, bound, prime_count, largest_prime, elapsed_ns)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		calc.StartedAt.UTC().Format(timeLayout),
		calc.EndedAt.UTC().Format(timeLayout),
		calc.Bound,
		calc.Count,
		calc.Largest,
		calc.ElapsedNs,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListCalculations returns calculations filtered by cfg, oldest first.
func (s *Store) ListCalculations(ctx context.Context, cfg model.HistoryConfig) ([]model.Calculation, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, bound, prime_count, largest_prime, elapsed_ns
		FROM calculations
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var calcs []model.Calculation
	for rows.Next() {
		var calc model.Calculation
		var startedAt, endedAt string
		if err := rows.Scan(&calc.ID, &startedAt, &endedAt, &calc.Bound, &calc.Count, &calc.Largest, &calc.ElapsedNs); err != nil {
			return nil, err
		}
		if calc.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, err
		}
		if calc.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, err
		}
		calcs = append(calcs, calc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(calcs) > cfg.Last {
		calcs = calcs[len(calcs)-cfg.Last:]
	}
	return calcs, nil
}

// FastestForBound returns the quickest recorded run for bound, if any.
func (s *Store) FastestForBound(ctx context.Context, bound int) (model.Calculation, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, bound, prime_count, largest_prime, elapsed_ns
		 FROM calculations
		 WHERE bound = ?
		 ORDER BY elapsed_ns ASC, id ASC
		 LIMIT 1`, bound)
	var calc model.Calculation
	if err := row.Scan(&calc.ID, &calc.Bound, &calc.Count, &calc.Largest, &calc.ElapsedNs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Calculation{}, false, nil
		}
		return model.Calculation{}, false, err
	}
	return calc, true, nil
}

// Clear deletes every recorded calculation and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM calculations`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
