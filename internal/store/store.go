// Package store keeps the working copy of each user's week in SQLite so it
// survives between command invocations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ihildy/weekhours/internal/week"

	_ "modernc.org/sqlite" // SQLite driver.
)

var ErrNoDraft = errors.New("no local week draft")

// Draft is the locally edited week for one user.
type Draft struct {
	UserID    int64
	RecordID  int64
	WeekStart string
	Week      week.Week
	UpdatedAt time.Time
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			_ = cerr
		}
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			user_id INTEGER PRIMARY KEY,
			record_id INTEGER NOT NULL DEFAULT 0,
			week_start TEXT NOT NULL,
			week_data TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) LoadDraft(ctx context.Context, userID int64) (Draft, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT record_id, week_start, week_data, updated_at FROM drafts WHERE user_id = ?`, userID)

	var (
		d         = Draft{UserID: userID}
		rawWeek   string
		updatedAt string
	)
	if err := row.Scan(&d.RecordID, &d.WeekStart, &rawWeek, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Draft{}, ErrNoDraft
		}
		return Draft{}, fmt.Errorf("load draft: %w", err)
	}
	if err := json.Unmarshal([]byte(rawWeek), &d.Week); err != nil {
		return Draft{}, fmt.Errorf("decode draft week: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		d.UpdatedAt = t
	}
	return d, nil
}

// SaveDraft replaces the user's draft wholesale.
func (s *Store) SaveDraft(ctx context.Context, d Draft) error {
	if d.UserID <= 0 {
		return errors.New("draft requires a user id")
	}
	data, err := json.Marshal(d.Week)
	if err != nil {
		return fmt.Errorf("encode draft week: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO drafts (user_id, record_id, week_start, week_data, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			record_id = excluded.record_id,
			week_start = excluded.week_start,
			week_data = excluded.week_data,
			updated_at = excluded.updated_at`,
		d.UserID, d.RecordID, d.WeekStart, string(data), s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *Store) DeleteDraft(ctx context.Context, userID int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
