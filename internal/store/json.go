package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/amishk599/careerbot/internal/model"
)

// Ensure JSONStore implements model.SessionStore.
var _ model.SessionStore = (*JSONStore)(nil)

// JSONStore keeps every user's session in one JSON document keyed by user ID.
//
// Each Load reads the whole document and each Save reads, merges and rewrites
// it. Nothing guards that cycle: two concurrent writers can lose an update and
// the last writer wins.
type JSONStore struct {
	path   string
	now    func() time.Time
	logger *slog.Logger
}

// NewJSONStore returns a store backed by the file at path. The file and its
// directory are created on first Save.
func NewJSONStore(path string, logger *slog.Logger) *JSONStore {
	return &JSONStore{
		path:   path,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// Load returns the session for userID. A missing or unreadable file yields an
// empty session.
func (s *JSONStore) Load(_ context.Context, userID string) (*model.Session, error) {
	all := s.readAll()
	sess, ok := all[userID]
	if !ok || sess == nil {
		return model.NewSession(s.now()), nil
	}
	sess.Normalize(s.now())
	return sess, nil
}

// Save merges sess into the document under userID and rewrites the file.
func (s *JSONStore) Save(_ context.Context, userID string, sess *model.Session) error {
	all := s.readAll()
	all[userID] = sess

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding sessions: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing sessions to %s: %w", s.path, err)
	}
	return nil
}

// Users returns the IDs of every stored session in sorted order.
func (s *JSONStore) Users(_ context.Context) ([]string, error) {
	all := s.readAll()
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// readAll loads the whole document. Corrupt content is discarded and will be
// overwritten on the next Save.
func (s *JSONStore) readAll() map[string]*model.Session {
	all := make(map[string]*model.Session)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("session file unreadable, starting empty", "path", s.path, "error", err)
		}
		return all
	}
	if err := json.Unmarshal(data, &all); err != nil {
		s.logger.Warn("session file corrupt, starting empty", "path", s.path, "error", err)
		return make(map[string]*model.Session)
	}
	return all
}
