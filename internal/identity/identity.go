// Package identity holds the locally generated user identifier that scopes
// every thread this client creates or lists.
package identity

import (
	"database/sql"
	"fmt"
	"sync"

	"growthbot/internal/db"

	"github.com/google/uuid"
)

// Store is safe for concurrent use. Readers call UserID; only Load and
// Reset write.
type Store struct {
	mu     sync.RWMutex
	conn   *sql.DB
	userID string
}

func New(conn *sql.DB) *Store {
	return &Store{conn: conn}
}

// Load reads the persisted identifier, generating and writing one if none
// exists. fresh is true when this call created it.
func (s *Store) Load() (id string, fresh bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok, err := db.GetSetting(s.conn, db.KeyUserID)
	if err != nil {
		return "", false, fmt.Errorf("read user id: %w", err)
	}
	if ok && existing != "" {
		s.userID = existing
		return existing, false, nil
	}

	candidate := uuid.NewString()
	stored, err := db.InsertSettingIfAbsent(s.conn, db.KeyUserID, candidate)
	if err != nil {
		return "", false, fmt.Errorf("write user id: %w", err)
	}
	s.userID = stored
	return stored, stored == candidate, nil
}

func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Reset replaces the identifier with a new one. Threads created under the
// old identifier are no longer listed.
func (s *Store) Reset() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	if err := db.SetSetting(s.conn, db.KeyUserID, id); err != nil {
		return "", fmt.Errorf("write user id: %w", err)
	}
	s.userID = id
	return id, nil
}
