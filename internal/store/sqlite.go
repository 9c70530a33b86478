package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/careerbot/internal/model"
)

// Ensure SQLiteStore implements model.SessionStore.
var _ model.SessionStore = (*SQLiteStore)(nil)

// SQLiteStore keeps one JSON-encoded session row per user in a SQLite database.
// Load and Save are independent statements, so the load-modify-save cycle of a
// request is not atomic across callers: the last writer wins.
type SQLiteStore struct {
	db     *sql.DB
	now    func() time.Time
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// sessions table exists.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS sessions (
		user_id    TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sessions table: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}, nil
}

// Load returns the stored session for userID, or an empty one when the user is
// unknown or the stored row cannot be decoded.
func (s *SQLiteStore) Load(ctx context.Context, userID string) (*model.Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM sessions WHERE user_id = ?", userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewSession(s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session for %s: %w", userID, err)
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		s.logger.Warn("stored session corrupt, starting empty", "user", userID, "error", err)
		return model.NewSession(s.now()), nil
	}
	sess.Normalize(s.now())
	return &sess, nil
}

// Save upserts the session for userID.
func (s *SQLiteStore) Save(ctx context.Context, userID string, sess *model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session for %s: %w", userID, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, string(data), s.now(),
	)
	if err != nil {
		return fmt.Errorf("saving session for %s: %w", userID, err)
	}
	return nil
}

// Users returns the IDs of every stored session, oldest update first.
func (s *SQLiteStore) Users(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT user_id FROM sessions ORDER BY updated_at")
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
