package images

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/nomnom/internal/domain"
)

const refPrefix = "image:"

var bucketImages = []byte("images")

// Store keeps encoded image bytes keyed by reference.
// With no path it runs memory-only.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex

	// Hot-path reads are promoted into memory
	cache map[string][]byte
}

// OpenStore opens (or creates) the image database at path
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketImages)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores data under a fresh reference
func (s *Store) Put(data []byte) (string, error) {
	key := uuid.NewString()
	ref := refPrefix + key

	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.cache[key] = buf
	s.mu.Unlock()

	if s.db == nil {
		return ref, nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketImages).Put([]byte(key), buf)
	})
	if err != nil {
		s.mu.Lock()
		delete(s.cache, key)
		s.mu.Unlock()
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return ref, nil
}

// Load resolves ref to the stored bytes. Implements domain.ImageLoader.
func (s *Store) Load(ref string) ([]byte, error) {
	key, ok := strings.CutPrefix(ref, refPrefix)
	if !ok || key == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrImageNotFound, ref)
	}

	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return data, nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrImageNotFound, ref)
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketImages).Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrImageNotFound, ref)
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()
	return data, nil
}

// Delete removes the image behind ref
func (s *Store) Delete(ref string) error {
	key, ok := strings.CutPrefix(ref, refPrefix)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrImageNotFound, ref)
	}

	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketImages).Delete([]byte(key))
	})
}
