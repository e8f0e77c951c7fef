// Package blocklist maintains the in-memory map of temporarily denied
// source addresses. Entries expire lazily: correctness never depends on a
// background sweep, Compact only bounds memory.
package blocklist

import (
	"sync"
	"time"

	"github.com/sentra-ids/sentra/internal/models"
)

type Blocklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

func New() *Blocklist {
	return &Blocklist{
		entries: make(map[string]time.Time),
	}
}

// IsBlocked reports whether an entry exists for address and has not expired
// at the given time. Expired entries are treated as absent.
func (b *Blocklist) IsBlocked(address string, now time.Time) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	expiresAt, ok := b.entries[address]
	return ok && now.Before(expiresAt)
}

// Block inserts or overwrites the entry for address with expiry now+duration.
// A repeat detection during an active block pushes the expiry forward
// (last-write-wins), it never takes the max of old and new.
func (b *Blocklist) Block(address string, now time.Time, duration time.Duration) models.BlockEntry {
	expiresAt := now.Add(duration)

	b.mu.Lock()
	b.entries[address] = expiresAt
	b.mu.Unlock()

	return models.BlockEntry{Address: address, ExpiresAt: expiresAt}
}

// Unblock removes the entry for address unconditionally. No-op if absent.
func (b *Blocklist) Unblock(address string) {
	b.mu.Lock()
	delete(b.entries, address)
	b.mu.Unlock()
}

// UnblockAll removes every entry and returns the addresses that were present.
func (b *Blocklist) UnblockAll() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	addresses := make([]string, 0, len(b.entries))
	for address := range b.entries {
		addresses = append(addresses, address)
		delete(b.entries, address)
	}
	return addresses
}

// Entries returns the block entries still active at the given time.
func (b *Blocklist) Entries(now time.Time) []models.BlockEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entries := make([]models.BlockEntry, 0, len(b.entries))
	for address, expiresAt := range b.entries {
		if now.Before(expiresAt) {
			entries = append(entries, models.BlockEntry{Address: address, ExpiresAt: expiresAt})
		}
	}
	return entries
}

// Compact drops expired entries to bound memory. Returns the number removed.
func (b *Blocklist) Compact(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for address, expiresAt := range b.entries {
		if !now.Before(expiresAt) {
			delete(b.entries, address)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held, expired or not.
func (b *Blocklist) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}
