// Package users persists the bot's private-chat whitelist in sqlite.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no user matches the given id.
var ErrNotFound = errors.New("user not found")

// User is a whitelist entry. At least one of Username and TelegramID is set;
// each is unique across all entries when present.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username,omitempty"`
	TelegramID int64     `json:"telegramId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Store is a sqlite-backed whitelist store.
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed creates) the whitelist database at path.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// NULLs are exempt from UNIQUE, so entries carrying only one of the
	// two identity fields do not collide.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE,
			telegram_id INTEGER UNIQUE,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NormalizeUsername trims a handle, strips a leading @, and lowercases it.
func NormalizeUsername(u string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(u), "@"))
}

// Exists reports whether a whitelist entry matches the given username or
// telegram id. With neither criterion supplied it reports false; an empty
// criteria set never matches everything.
func (s *Store) Exists(ctx context.Context, username string, telegramID int64) (bool, error) {
	var clauses []string
	var params []any
	if username != "" {
		clauses = append(clauses, "username = ?")
		params = append(params, username)
	}
	if telegramID != 0 {
		clauses = append(clauses, "telegram_id = ?")
		params = append(params, telegramID)
	}
	if len(clauses) == 0 {
		return false, nil
	}

	query := "SELECT COUNT(*) FROM users WHERE " + strings.Join(clauses, " OR ")
	var count int
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&count); err != nil {
		return false, fmt.Errorf("query whitelist: %w", err)
	}
	return count > 0, nil
}

// List returns all entries, newest first.
func (s *Store) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, telegram_id, created_at
		FROM users
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create inserts a new entry. The username is normalized; at least one of
// username and telegramID must be non-empty.
func (s *Store) Create(ctx context.Context, username string, telegramID int64) (*User, error) {
	username = NormalizeUsername(username)
	if username == "" && telegramID == 0 {
		return nil, errors.New("username or telegramId required")
	}

	u := User{
		ID:         uuid.New().String(),
		Username:   username,
		TelegramID: telegramID,
		CreatedAt:  time.Now(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, telegram_id, created_at)
		VALUES (?, ?, ?, ?)
	`, u.ID, nullString(u.Username), nullInt(u.TelegramID), u.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// Update changes the username and/or telegram id of an existing entry. A
// nil field is left untouched.
func (s *Store) Update(ctx context.Context, id string, username *string, telegramID *int64) (*User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if username != nil {
		u.Username = NormalizeUsername(*username)
	}
	if telegramID != nil {
		u.TelegramID = *telegramID
	}
	if u.Username == "" && u.TelegramID == 0 {
		return nil, errors.New("username or telegramId required")
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE users SET username = ?, telegram_id = ? WHERE id = ?
	`, nullString(u.Username), nullInt(u.TelegramID), id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Get returns the entry with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, telegram_id, created_at FROM users WHERE id = ?
	`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes an entry. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (User, error) {
	var u User
	var username sql.NullString
	var telegramID sql.NullInt64
	var createdAt int64

	if err := row.Scan(&u.ID, &username, &telegramID, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, err
		}
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	u.Username = username.String
	u.TelegramID = telegramID.Int64
	u.CreatedAt = time.Unix(createdAt, 0)
	return u, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}
