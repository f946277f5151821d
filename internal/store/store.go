// Package store archives analysis runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/d20stats/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for archived runs.
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			data_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_characters (
			run_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			session_mean REAL NOT NULL,
			session_stddev REAL NOT NULL,
			session_variance REAL NOT NULL,
			total_sessions INTEGER NOT NULL,
			total_rolls INTEGER NOT NULL,
			total_mean REAL NOT NULL,
			total_stddev REAL NOT NULL,
			total_variance REAL NOT NULL,
			PRIMARY KEY (run_id, name)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a run and the summary figures of every analyzed character.
func (s *Store) InsertRun(ctx context.Context, run model.Run, summaries []model.CharacterSummary) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, data_dir, output_dir) VALUES (?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.DataDir,
		run.OutputDir,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(summaries) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT OR REPLACE INTO run_characters (run_id, name, session_mean, session_stddev, session_variance,
				total_sessions, total_rolls, total_mean, total_stddev, total_variance)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cs := range summaries {
			if _, err = stmt.ExecContext(ctx, id, cs.Name, cs.SessionMean, cs.SessionStdDev, cs.SessionVariance,
				cs.TotalSessions, cs.TotalRolls, cs.TotalMean, cs.TotalStdDev, cs.TotalVariance); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive limit lists every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.RunAggregate, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT r.id, r.started_at, r.data_dir, r.output_dir,
		COUNT(c.name) AS characters, COALESCE(AVG(c.total_mean), 0) AS mean_of_mean
	FROM runs r
	LEFT JOIN run_characters c ON c.run_id = r.id
	GROUP BY r.id
	ORDER BY r.started_at DESC, r.id DESC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.RunAggregate
	for rows.Next() {
		var agg model.RunAggregate
		var startedAt string
		if err := rows.Scan(&agg.RunID, &startedAt, &agg.DataDir, &agg.OutputDir, &agg.Characters, &agg.MeanOfMean); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, err
		}
		agg.StartedAt = parsed
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListRunCharacters returns the archived figures of one run, ordered by name.
func (s *Store) ListRunCharacters(ctx context.Context, runID int64) ([]model.CharacterSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, session_mean, session_stddev, session_variance, total_sessions, total_rolls,
			total_mean, total_stddev, total_variance
		FROM run_characters
		WHERE run_id = ?
		ORDER BY name`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.CharacterSummary
	for rows.Next() {
		var cs model.CharacterSummary
		if err := rows.Scan(&cs.Name, &cs.SessionMean, &cs.SessionStdDev, &cs.SessionVariance, &cs.TotalSessions,
			&cs.TotalRolls, &cs.TotalMean, &cs.TotalStdDev, &cs.TotalVariance); err != nil {
			return nil, err
		}
		result = append(result, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
