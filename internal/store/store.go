// Package store handles SQLite persistence of completed exercises.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/typetrack/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for exercise results.
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
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			lang TEXT NOT NULL,
			source TEXT NOT NULL,
			text_len INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			fixed INTEGER NOT NULL,
			mistakes INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS result_char_stats (
			result_id INTEGER NOT NULL,
			char TEXT NOT NULL,
			typed INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			fixed INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (result_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_results_ended_at ON results(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_result_char_stats_char ON result_char_stats(char);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertResult stores a completed exercise and its per-character stats.
func (s *Store) InsertResult(ctx context.Context, res model.Result, chars []model.CharStats) (id int64, err error) {
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

	r, err := tx.ExecContext(ctx,
		`INSERT INTO results (started_at, ended_at, lang, source, text_len, correct, incorrect, fixed, mistakes, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.StartedAt.Format(time.RFC3339Nano),
		res.EndedAt.Format(time.RFC3339Nano),
		res.Lang,
		res.Source,
		res.TextLen,
		res.Correct,
		res.Incorrect,
		res.Fixed,
		res.Mistakes,
		res.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = r.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(chars) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO result_char_stats (result_id, char, typed, incorrect, fixed) VALUES (?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, cs := range chars {
			if _, err = stmt.ExecContext(ctx, id, cs.Char, cs.Typed, cs.Incorrect, cs.Fixed); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetWeakChars aggregates character stats over the most recent results.
func (s *Store) GetWeakChars(ctx context.Context, window int, lang string) ([]model.CharAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent AS (
		SELECT id FROM results
		WHERE (? = '' OR lang = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT cs.char, SUM(cs.typed) AS typed, SUM(cs.incorrect) AS incorrect, SUM(cs.fixed) AS fixed
	FROM result_char_stats cs
	JOIN recent r ON r.id = cs.result_id
	GROUP BY cs.char`

	rows, err := s.db.QueryContext(ctx, query, lang, lang, window)
	if err != nil {
		return nil, err
	}
	return scanCharAggregates(rows)
}

// ListResults returns result aggregates filtered by stats config, oldest first.
func (s *Store) ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.ResultAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, correct, incorrect, fixed, mistakes, duration_ms
		FROM results
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
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

	var results []model.ResultAggregate
	for rows.Next() {
		var agg model.ResultAggregate
		var endedAt string
		if err := rows.Scan(&agg.ResultID, &endedAt, &agg.Correct, &agg.Incorrect, &agg.Fixed, &agg.Mistakes, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		results = append(results, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// ListCharAggregates aggregates per-character stats across results.
func (s *Store) ListCharAggregates(ctx context.Context, resultIDs []int64) ([]model.CharAggregate, error) {
	if len(resultIDs) == 0 {
		return nil, nil
	}
	args := make([]any, len(resultIDs))
	for i, id := range resultIDs {
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT char, SUM(typed) AS typed, SUM(incorrect) AS incorrect, SUM(fixed) AS fixed
		FROM result_char_stats
		WHERE result_id IN (%s)
		GROUP BY char`, placeholders(len(resultIDs)))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanCharAggregates(rows)
}

// ListCharStatsByResult returns the stats of the selected characters keyed by
// result ID and then by character.
func (s *Store) ListCharStatsByResult(ctx context.Context, resultIDs []int64, chars []string) (map[int64]map[string]model.CharAggregate, error) {
	byResult := map[int64]map[string]model.CharAggregate{}
	if len(resultIDs) == 0 || len(chars) == 0 {
		return byResult, nil
	}
	args := make([]any, 0, len(resultIDs)+len(chars))
	for _, id := range resultIDs {
		args = append(args, id)
	}
	for _, ch := range chars {
		args = append(args, ch)
	}
	query := fmt.Sprintf(`SELECT result_id, char, typed, incorrect, fixed
		FROM result_char_stats
		WHERE result_id IN (%s) AND char IN (%s)`, placeholders(len(resultIDs)), placeholders(len(chars)))
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
	for rows.Next() {
		var id int64
		var agg model.CharAggregate
		if err := rows.Scan(&id, &agg.Char, &agg.Typed, &agg.Incorrect, &agg.Fixed); err != nil {
			return nil, err
		}
		if byResult[id] == nil {
			byResult[id] = map[string]model.CharAggregate{}
		}
		byResult[id][agg.Char] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return byResult, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func scanCharAggregates(rows *sql.Rows) ([]model.CharAggregate, error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	var result []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Typed, &agg.Incorrect, &agg.Fixed); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
