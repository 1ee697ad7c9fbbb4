package storage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexjait/AuditBookContract/internal/record"
)

var (
	// ErrInvalidRecord indicates a loaded record was rejected by strict validation.
	ErrInvalidRecord = errors.New("configuration record failed validation")
)

// Loader builds a fresh configuration record.
type Loader func() (record.Record, error)

// Storage provides access to the active configuration record.
type Storage interface {
	Get() (record.Record, error)
	Reload() (record.Record, error)
	LoadedAt() time.Time
}

// MemoryStorage keeps the resolved record in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	load   Loader
	strict bool
	clock  func() time.Time

	mu       sync.RWMutex
	current  record.Record
	loadedAt time.Time
}

// Option configures MemoryStorage behaviour.
type Option func(*MemoryStorage)

// WithStrict rejects records that fail validation on load and reload.
func WithStrict(strict bool) Option {
	return func(s *MemoryStorage) {
		s.strict = strict
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *MemoryStorage) {
		s.clock = clock
	}
}

// NewMemoryStorage runs the loader once and keeps the result.
func NewMemoryStorage(load Loader, opts ...Option) (*MemoryStorage, error) {
	s := &MemoryStorage{
		load: load,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns a defensive copy of the active record.
func (s *MemoryStorage) Get() (record.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.Clone(), nil
}

// LoadedAt reports when the active record was built.
func (s *MemoryStorage) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadedAt
}

// Reload builds a new record and swaps it in. On failure the previous record
// stays active.
func (s *MemoryStorage) Reload() (record.Record, error) {
	rec, err := s.load()
	if err != nil {
		return record.Record{}, fmt.Errorf("load record: %w", err)
	}

	if s.strict {
		if err := rec.Validate(); err != nil {
			return record.Record{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		}
	}

	s.mu.Lock()
	s.current = rec.Clone()
	s.loadedAt = s.clock()
	s.mu.Unlock()

	return rec, nil
}
