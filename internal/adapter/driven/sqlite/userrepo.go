package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
	"github.com/ericfisherdev/glsidebar/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UserProfileStore = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of the UserProfileStore port.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo backed by the given DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

type userRow struct {
	UserID    string         `db:"user_id"`
	Username  string         `db:"username"`
	Name      string         `db:"name"`
	AvatarURL string         `db:"avatar_url"`
	WebURL    string         `db:"web_url"`
	LastTry   sql.NullString `db:"last_try"`
}

// Get returns the cached profile for userID, or (nil, nil) if none exists.
func (r *UserRepo) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	const query = `SELECT user_id, username, name, avatar_url, web_url, last_try FROM gitlab_users WHERE user_id = ?`

	var row userRow
	err := r.db.Reader.GetContext(ctx, &row, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}

	profile := model.UserProfile{
		UserID:    row.UserID,
		Username:  row.Username,
		Name:      row.Name,
		AvatarURL: row.AvatarURL,
		WebURL:    row.WebURL,
	}
	if row.LastTry.Valid && row.LastTry.String != "" {
		profile.LastTry, err = parseTime(row.LastTry.String)
		if err != nil {
			return nil, fmt.Errorf("parse last_try for user %s: %w", userID, err)
		}
	}

	return &profile, nil
}

// Put inserts or replaces the entry for profile.UserID. A zero LastTry is
// stored as NULL.
func (r *UserRepo) Put(ctx context.Context, profile model.UserProfile) error {
	const query = `
		INSERT INTO gitlab_users (user_id, username, name, avatar_url, web_url, last_try, updated_at)
		VALUES (:user_id, :username, :name, :avatar_url, :web_url, :last_try, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET
			username   = excluded.username,
			name       = excluded.name,
			avatar_url = excluded.avatar_url,
			web_url    = excluded.web_url,
			last_try   = excluded.last_try,
			updated_at = CURRENT_TIMESTAMP`

	row := userRow{
		UserID:    profile.UserID,
		Username:  profile.Username,
		Name:      profile.Name,
		AvatarURL: profile.AvatarURL,
		WebURL:    profile.WebURL,
	}
	if !profile.LastTry.IsZero() {
		row.LastTry = sql.NullString{String: profile.LastTry.UTC().Format(time.RFC3339Nano), Valid: true}
	}

	if _, err := r.db.Writer.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("put user %s: %w", profile.UserID, err)
	}
	return nil
}

// Count returns the number of cached entries.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Reader.GetContext(ctx, &n, `SELECT COUNT(*) FROM gitlab_users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// parseTime attempts to parse a time string using several common SQLite
// datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
