package config

import (
	"sync"
)

// Store holds the active configuration behind a reader-writer lock.
//
// Handlers take a Snapshot at the start of a request and never observe a
// value change mid-request. No writer exists today; Replace is the hook a
// future reloader would use, and the locking discipline already supports
// the exclusive-writer/many-readers pattern so handlers won't need changes.
//
// The store is constructed explicitly and injected into the server rather
// than living in a package-level global.
type Store struct {
	mu  sync.RWMutex
	cfg Config
}

// NewStore creates a Store holding cfg as the active configuration.
func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg}
}

// Snapshot returns a copy of the active configuration. The read lock is
// held only for the copy, never across I/O.
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Replace atomically swaps the active configuration.
func (s *Store) Replace(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}
