// Package store handles SQLite persistence of finished attempts.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/verte-zerg/codetype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Fixed-width UTC timestamps keep text ordering equal to time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps SQLite access for attempt history.
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
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			lesson_id TEXT NOT NULL,
			lesson_title TEXT NOT NULL,
			lang TEXT NOT NULL,
			mode TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			total_chars INTEGER NOT NULL,
			correct_chars INTEGER NOT NULL,
			mismatches INTEGER NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			points INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempt_errors (
			attempt_id TEXT NOT NULL,
			expected TEXT NOT NULL,
			typed TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (attempt_id, expected, typed)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_ended_at ON attempts(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_lesson ON attempts(lesson_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// InsertAttempt stores a finished attempt and its error ledger. An empty ID is replaced by
// a new ULID; the stored ID is returned.
func (s *Store) InsertAttempt(ctx context.Context, rec model.AttemptRecord, errs []model.ErrorRecord) (id string, err error) {
	id = rec.ID
	if id == "" {
		id = ulid.Make().String()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO attempts (id, lesson_id, lesson_title, lang, mode, started_at, ended_at, duration_ms,
			total_chars, correct_chars, mismatches, wpm, accuracy, points)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		rec.LessonID,
		rec.LessonTitle,
		rec.Lang,
		rec.Mode,
		formatTime(rec.StartedAt),
		formatTime(rec.EndedAt),
		rec.DurationMs,
		rec.TotalChars,
		rec.CorrectChars,
		rec.Mismatches,
		rec.WPM,
		rec.Accuracy,
		rec.Points,
	)
	if err != nil {
		return "", err
	}

	if len(errs) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO attempt_errors (attempt_id, expected, typed, count) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, e := range errs {
			if _, err = stmt.ExecContext(ctx, id, e.Expected, e.Typed, e.Count); err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func attemptFilter(cfg model.StatsConfig) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.LessonID != "" {
		clauses = append(clauses, "lesson_id = ?")
		args = append(args, cfg.LessonID)
	}
	if cfg.Lang != "" {
		clauses = append(clauses, "lang = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	return strings.Join(clauses, " AND "), args
}

// ListAttempts returns attempts matching the stats filters, oldest first.
func (s *Store) ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.AttemptAggregate, error) {
	where, args := attemptFilter(cfg)
	query := fmt.Sprintf(`SELECT id, lesson_id, lang, ended_at, correct_chars, mismatches, duration_ms, wpm, accuracy, points
		FROM attempts
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, where)
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

	var attempts []model.AttemptAggregate
	for rows.Next() {
		var agg model.AttemptAggregate
		var endedAt string
		if err := rows.Scan(&agg.AttemptID, &agg.LessonID, &agg.Lang, &endedAt, &agg.CorrectChars, &agg.Mismatches,
			&agg.DurationMs, &agg.WPM, &agg.Accuracy, &agg.Points); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		attempts = append(attempts, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// CommonErrors sums error records across the given attempts, most frequent first. A limit of
// zero or less returns every pair.
func (s *Store) CommonErrors(ctx context.Context, attemptIDs []string, limit int) ([]model.ErrorAggregate, error) {
	if len(attemptIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(attemptIDs))
	args := make([]any, 0, len(attemptIDs)+1)
	for i, id := range attemptIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT expected, typed, SUM(count) AS total, COUNT(DISTINCT attempt_id) AS attempts
		FROM attempt_errors
		WHERE attempt_id IN (%s)
		GROUP BY expected, typed
		ORDER BY total DESC, expected ASC, typed ASC
		LIMIT ?`, strings.Join(placeholders, ","))
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

	var result []model.ErrorAggregate
	for rows.Next() {
		var agg model.ErrorAggregate
		if err := rows.Scan(&agg.Expected, &agg.Typed, &agg.Count, &agg.Attempts); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// BestByLesson summarizes attempts per lesson, most recently practiced first.
func (s *Store) BestByLesson(ctx context.Context, cfg model.StatsConfig) ([]model.LessonBest, error) {
	where, args := attemptFilter(cfg)
	query := fmt.Sprintf(`SELECT lesson_id, MAX(lesson_title), MAX(lang), COUNT(*), MAX(wpm), MAX(accuracy), MAX(ended_at) AS last_ended
		FROM attempts
		WHERE %s
		GROUP BY lesson_id
		ORDER BY last_ended DESC, lesson_id ASC`, where)
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

	var result []model.LessonBest
	for rows.Next() {
		var best model.LessonBest
		var lastEnded string
		if err := rows.Scan(&best.LessonID, &best.LessonTitle, &best.Lang, &best.Attempts, &best.BestWPM, &best.BestAcc, &lastEnded); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, lastEnded)
		if err != nil {
			return nil, err
		}
		best.LastEndedAt = parsed
		result = append(result, best)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
