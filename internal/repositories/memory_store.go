package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sentra-ids/sentra/internal/models"
)

// MemoryAttemptStore is an in-memory attempt store with the same query
// surface as the Postgres repository. Used in tests and when running the
// demo without a database.
type MemoryAttemptStore struct {
	mu       sync.RWMutex
	attempts map[string][]models.LoginAttempt
}

func NewMemoryAttemptStore() *MemoryAttemptStore {
	return &MemoryAttemptStore{
		attempts: make(map[string][]models.LoginAttempt),
	}
}

func (m *MemoryAttemptStore) RecordAttempt(_ context.Context, attempt *models.LoginAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts[attempt.Address] = append(m.attempts[attempt.Address], *attempt)
	return nil
}

func (m *MemoryAttemptStore) CountByAddress(_ context.Context, address string, since time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, a := range m.attempts[address] {
		if !a.AttemptTime.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryAttemptStore) ListByAddress(_ context.Context, address string, since time.Time) ([]models.LoginAttempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.LoginAttempt
	for _, a := range m.attempts[address] {
		if !a.AttemptTime.Before(since) {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].AttemptTime.After(out[j].AttemptTime)
	})
	return out, nil
}

func (m *MemoryAttemptStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for address, attempts := range m.attempts {
		kept := attempts[:0]
		for _, a := range attempts {
			if a.AttemptTime.Before(cutoff) {
				removed++
			} else {
				kept = append(kept, a)
			}
		}
		if len(kept) == 0 {
			delete(m.attempts, address)
		} else {
			m.attempts[address] = kept
		}
	}
	return removed, nil
}

func (m *MemoryAttemptStore) DeleteAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts = make(map[string][]models.LoginAttempt)
	return nil
}
