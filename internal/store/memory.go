package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/careerbot/internal/model"
)

// MemoryStore keeps sessions in process memory. Records are copied on the way
// in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, userID string) (*model.Session, error) {
	s.mu.Lock()
	data, ok := s.sessions[userID]
	s.mu.Unlock()

	now := time.Now().UTC()
	if !ok {
		return model.NewSession(now), nil
	}
	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return model.NewSession(now), nil
	}
	sess.Normalize(now)
	return &sess, nil
}

func (s *MemoryStore) Save(_ context.Context, userID string, sess *model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", userID, err)
	}
	s.mu.Lock()
	s.sessions[userID] = data
	s.mu.Unlock()
	return nil
}
