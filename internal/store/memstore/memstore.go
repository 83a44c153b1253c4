// Package memstore holds todo items in process memory.
//
// Store is the single concurrency boundary for the collection and the id
// counter. Reads return copies, so callers never alias stored items across
// requests. Nothing survives a restart.
package memstore

import (
	"errors"
	"sync"

	"github.com/idilsaglam/todo-service/internal/model"
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("todo not found")

// Store keeps items in insertion order.
// The counter only moves forward, so ids are never reused after a delete.
type Store struct {
	mu      sync.RWMutex
	items   []model.TodoItem
	counter int64
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithSeed inserts items through Create, in order, when the store is built.
func WithSeed(items []model.TodoItem) Option {
	return func(s *Store) {
		for _, it := range items {
			s.Create(it)
		}
	}
}

// DefaultSeed returns the items the service starts with (ids 1-3 once inserted).
func DefaultSeed() []model.TodoItem {
	return []model.TodoItem{
		{Title: "Learn Spring Boot", Description: "Complete Spring Boot tutorial"},
		{Title: "Setup CI/CD", Description: "Configure AWS CodePipeline"},
		{Title: "Deploy to ECS", Description: "Deploy application to Amazon ECS"},
	}
}

// New builds an empty store and applies opts.
func New(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a copy of every item in insertion order.
func (s *Store) List() []model.TodoItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.TodoItem, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the item with id or ErrNotFound.
func (s *Store) Get(id int64) (model.TodoItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.TodoItem{}, ErrNotFound
	}
	return s.items[i], nil
}

// Create assigns the next id, ignoring item.ID, and appends the item.
func (s *Store) Create(item model.TodoItem) model.TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	item.ID = s.counter
	s.items = append(s.items, item)
	return item
}

// Update replaces every field of the item with id, keeping its position.
// The stored id is always id, whatever item.ID says.
func (s *Store) Update(id int64, item model.TodoItem) (model.TodoItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.TodoItem{}, ErrNotFound
	}
	item.ID = id
	s.items[i] = item
	return item, nil
}

// Delete removes the item with id and reports whether anything was removed.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Len returns the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id int64) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
