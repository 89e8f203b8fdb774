package store

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/nomnom/internal/domain"
)

// Store is the authoritative in-memory recipe collection.
//
// Insertion order is creation order. Every committed mutation publishes a
// complete snapshot to all subscribers while the write lock is still held,
// so each subscriber observes mutations in commit order and readers never
// see a half-applied change.
type Store struct {
	mu      sync.RWMutex
	recipes []domain.Recipe
	subs    map[*Subscription]struct{}
	logger  *slog.Logger
}

// New creates a store seeded with the given recipes
func New(logger *slog.Logger, initial ...domain.Recipe) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		recipes: domain.CloneAll(initial),
		subs:    make(map[*Subscription]struct{}),
		logger:  logger,
	}
}

// All returns a snapshot of the full collection
func (s *Store) All() []domain.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneAll(s.recipes)
}

// Len returns the number of recipes
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes)
}

// GetOne looks up a recipe by id. Absent is not an error.
func (s *Store) GetOne(id string) (domain.Recipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.recipes[i].Clone(), true
	}
	return domain.Recipe{}, false
}

// Update replaces the recipe with the same id.
// Returns ErrRecipeNotFound and leaves the collection untouched on a miss.
func (s *Store) Update(r domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(r.ID)
	if i < 0 {
		s.logger.Debug("update miss", "id", r.ID)
		return fmt.Errorf("update %q: %w", r.ID, domain.ErrRecipeNotFound)
	}

	next := make([]domain.Recipe, len(s.recipes))
	copy(next, s.recipes)
	next[i] = r.Clone()
	s.commit(next)
	s.logger.Debug("updated recipe", "id", r.ID)
	return nil
}

// Create appends a recipe. Id uniqueness is the caller's responsibility.
func (s *Store) Create(r domain.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Recipe, len(s.recipes), len(s.recipes)+1)
	copy(next, s.recipes)
	next = append(next, r.Clone())
	s.commit(next)
	s.logger.Debug("created recipe", "id", r.ID, "count", len(next))
}

// Delete removes the recipe with the given id
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete %q: %w", id, domain.ErrRecipeNotFound)
	}

	next := make([]domain.Recipe, 0, len(s.recipes)-1)
	next = append(next, s.recipes[:i]...)
	next = append(next, s.recipes[i+1:]...)
	s.commit(next)
	s.logger.Debug("deleted recipe", "id", id, "count", len(next))
	return nil
}

// Subscribe registers an observer. The current snapshot is delivered
// immediately; later snapshots follow each commit.
func (s *Store) Subscribe() *Subscription {
	sub := &Subscription{
		ch:    make(chan []domain.Recipe, 1),
		store: s,
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	sub.offer(domain.CloneAll(s.recipes))
	s.mu.Unlock()

	return sub
}

// commit swaps in the new collection and publishes it. Caller holds mu.
func (s *Store) commit(next []domain.Recipe) {
	s.recipes = next
	for sub := range s.subs {
		sub.offer(domain.CloneAll(next))
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
}

// Subscription delivers collection snapshots to one observer.
//
// Only the latest undelivered snapshot is kept: a subscriber that falls
// behind skips intermediate states but never sees them out of order.
type Subscription struct {
	mu     sync.Mutex
	ch     chan []domain.Recipe
	closed bool
	store  *Store
}

// C returns the snapshot channel. It is closed by Close.
func (s *Subscription) C() <-chan []domain.Recipe {
	return s.ch
}

// Close unregisters the subscription and closes its channel
func (s *Subscription) Close() {
	s.store.unsubscribe(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// offer replaces any pending snapshot with snap
func (s *Subscription) offer(snap []domain.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}
