package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go driver

	"github.com/five82/playercard/internal/profile"
)

// ErrNotFound reports an unknown token or profile.
var ErrNotFound = errors.New("not found")

const (
	busyTimeout  = 5 * time.Second
	maxOpenConns = 4

	eventSignOut = "sign_out"
)

// Repository persists profiles and session events in SQLite.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// OpenRepository opens (creating if needed) the database at path and applies
// the schema.
func OpenRepository(path string) (*Repository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		path, busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open failed: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}

	repo := &Repository{db: db, now: time.Now}
	if err := repo.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return repo, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		token TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		handle TEXT NOT NULL DEFAULT '',
		avatar TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS session_events (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		kind TEXT NOT NULL CHECK(kind IN ('sign_out')),
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_session_events_profile ON session_events(profile_id, created_at);
	`
	_, err := r.db.Exec(schema)
	return err
}

// EnsureAccount creates the profile owning token, or refreshes its email when
// it already exists. Handle and avatar are never touched.
func (r *Repository) EnsureAccount(ctx context.Context, token, email string) (profile.Record, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, token, email, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(token) DO UPDATE SET email = excluded.email`,
		uuid.NewString(), token, email, r.timestamp())
	if err != nil {
		return profile.Record{}, fmt.Errorf("seed account: %w", err)
	}
	return r.ByToken(ctx, token)
}

// ByToken returns the profile owning token.
func (r *Repository) ByToken(ctx context.Context, token string) (profile.Record, error) {
	var (
		rec    profile.Record
		avatar string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, handle, avatar FROM profiles WHERE token = ?`, token,
	).Scan(&rec.ID, &rec.Email, &rec.Handle, &avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Record{}, ErrNotFound
	}
	if err != nil {
		return profile.Record{}, fmt.Errorf("query profile: %w", err)
	}
	rec.AvatarID = profile.AvatarID(avatar)
	return rec, nil
}

// UpdateProfile stores handle and avatar. It reports whether anything changed;
// writing the stored values again is a no-op.
func (r *Repository) UpdateProfile(ctx context.Context, id, handle string, avatar profile.AvatarID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET handle = ?, avatar = ?, updated_at = ?
		WHERE id = ? AND (handle <> ? OR avatar <> ?)`,
		handle, string(avatar), r.timestamp(), id, handle, string(avatar))
	if err != nil {
		return false, fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update profile: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("query profile: %w", err)
	}
	return false, nil
}

// RecordSignOut appends a sign-out event for the profile and returns its id.
func (r *Repository) RecordSignOut(ctx context.Context, profileID string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session_events (id, profile_id, kind, created_at) VALUES (?, ?, ?, ?)`,
		id, profileID, eventSignOut, r.timestamp())
	if err != nil {
		return "", fmt.Errorf("record sign out: %w", err)
	}
	return id, nil
}

// SignOutCount returns how many sign-outs the profile has recorded.
func (r *Repository) SignOutCount(ctx context.Context, profileID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM session_events WHERE profile_id = ? AND kind = ?`,
		profileID, eventSignOut,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sign outs: %w", err)
	}
	return n, nil
}

func (r *Repository) timestamp() string {
	return r.now().UTC().Format(time.RFC3339Nano)
}
