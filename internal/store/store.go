package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket and key names
var (
	bucketSession = []byte("session")
	keyToken      = []byte("token")
)

// TokenStore implements domain.TokenStore using BoltDB.
// The token is held in memory after the first read; writes go through to disk.
type TokenStore struct {
	db *bolt.DB
	mu sync.RWMutex

	token  string
	loaded bool
}

// NewTokenStore opens the per-server database under baseDir.
// An empty baseDir gives a memory-only store.
func NewTokenStore(baseDir, serverURL string) (*TokenStore, error) {
	if baseDir == "" {
		// Memory-only mode (no persistence)
		return &TokenStore{loaded: true}, nil
	}

	dir := baseDir
	if serverURL != "" {
		dir = filepath.Join(baseDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "marquee.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &TokenStore{db: db}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *TokenStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Token returns the persisted token, if any
func (s *TokenStore) Token() (string, bool) {
	s.mu.RLock()
	if s.loaded {
		tok := s.token
		s.mu.RUnlock()
		return tok, tok != ""
	}
	s.mu.RUnlock()

	var tok string
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		if v := b.Get(keyToken); v != nil {
			tok = string(v) // string() copies; v is only valid inside the tx
		}
		return nil
	})

	// Promote to memory
	s.mu.Lock()
	s.token = tok
	s.loaded = true
	s.mu.Unlock()

	return tok, tok != ""
}

// SaveToken persists the token. Last writer wins.
func (s *TokenStore) SaveToken(token string) error {
	if token == "" {
		return s.ClearToken()
	}

	s.mu.Lock()
	s.token = token
	s.loaded = true
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketSession)
		if err != nil {
			return err
		}
		return b.Put(keyToken, []byte(token))
	})
}

// ClearToken removes the persisted token
func (s *TokenStore) ClearToken() error {
	s.mu.Lock()
	s.token = ""
	s.loaded = true
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return nil
		}
		return b.Delete(keyToken)
	})
}
