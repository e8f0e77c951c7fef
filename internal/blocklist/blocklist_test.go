package blocklist_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sentra-ids/sentra/internal/blocklist"
	"github.com/stretchr/testify/assert"
)

func TestIsBlocked_UnknownAddress(t *testing.T) {
	b := blocklist.New()
	assert.False(t, b.IsBlocked("10.0.0.1", time.Now()))
}

func TestBlock_ActiveWithinWindow(t *testing.T) {
	b := blocklist.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entry := b.Block("10.0.0.1", now, 15*time.Minute)

	assert.Equal(t, now.Add(15*time.Minute), entry.ExpiresAt)
	assert.True(t, b.IsBlocked("10.0.0.1", now))
	assert.True(t, b.IsBlocked("10.0.0.1", now.Add(14*time.Minute)))
	assert.False(t, b.IsBlocked("10.0.0.1", now.Add(15*time.Minute)))
	assert.False(t, b.IsBlocked("10.0.0.1", now.Add(16*time.Minute)))
}

func TestBlock_LastWriteWins(t *testing.T) {
	b := blocklist.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	b.Block("10.0.0.1", now, 30*time.Minute)
	// Second, shorter block replaces the first expiry entirely.
	b.Block("10.0.0.1", now.Add(time.Minute), 5*time.Minute)

	assert.True(t, b.IsBlocked("10.0.0.1", now.Add(5*time.Minute)))
	assert.False(t, b.IsBlocked("10.0.0.1", now.Add(7*time.Minute)))
}

func TestUnblock_RemovesActiveEntry(t *testing.T) {
	b := blocklist.New()
	now := time.Now()

	b.Block("10.0.0.1", now, time.Hour)
	b.Unblock("10.0.0.1")

	assert.False(t, b.IsBlocked("10.0.0.1", now))
}

func TestUnblock_NoopWhenAbsent(t *testing.T) {
	b := blocklist.New()
	b.Unblock("10.0.0.1")
	assert.Equal(t, 0, b.Len())
}

func TestUnblockAll(t *testing.T) {
	b := blocklist.New()
	now := time.Now()

	b.Block("10.0.0.1", now, time.Hour)
	b.Block("10.0.0.2", now, time.Hour)
	b.Block("10.0.0.3", now, time.Hour)

	addresses := b.UnblockAll()

	assert.Len(t, addresses, 3)
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.IsBlocked("10.0.0.1", now))
	assert.False(t, b.IsBlocked("10.0.0.2", now))
	assert.False(t, b.IsBlocked("10.0.0.3", now))
}

func TestEntries_SkipsExpired(t *testing.T) {
	b := blocklist.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	b.Block("10.0.0.1", now, time.Minute)
	b.Block("10.0.0.2", now, time.Hour)

	entries := b.Entries(now.Add(5 * time.Minute))

	assert.Len(t, entries, 1)
	assert.Equal(t, "10.0.0.2", entries[0].Address)
}

func TestCompact_DropsOnlyExpired(t *testing.T) {
	b := blocklist.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	b.Block("10.0.0.1", now, time.Minute)
	b.Block("10.0.0.2", now, time.Hour)

	removed := b.Compact(now.Add(5 * time.Minute))

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, b.Len())
	assert.True(t, b.IsBlocked("10.0.0.2", now.Add(5*time.Minute)))
}

func TestConcurrentAccess(t *testing.T) {
	b := blocklist.New()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			address := fmt.Sprintf("10.0.0.%d", i%8)
			b.Block(address, now, time.Minute)
			b.IsBlocked(address, now)
			if i%3 == 0 {
				b.Unblock(address)
			}
		}(i)
	}
	wg.Wait()

	// No assertion beyond surviving the race detector.
	b.Compact(now.Add(2 * time.Minute))
}
