package service

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/pkg/api"
)

// LedgerCache keeps computed group ledgers until the group changes.
//
// It is an events.Publisher: publishing any event for a group evicts that
// group's ledger. Each group has a generation counter so a ledger computed
// from data older than the latest change is never stored.
type LedgerCache struct {
	entries *cache.Cache

	mu          sync.Mutex
	generations map[string]uint64
}

var _ events.Publisher = (*LedgerCache)(nil)

// NewLedgerCache creates a cache whose entries expire after ttl.
func NewLedgerCache(ttl time.Duration) *LedgerCache {
	return &LedgerCache{
		entries:     cache.New(ttl, 2*ttl),
		generations: make(map[string]uint64),
	}
}

type cachedLedger struct {
	generation uint64
	resp       *api.GetGroupLedgerResponse
}

// Publish evicts the ledger of event.GroupID.
func (c *LedgerCache) Publish(_ context.Context, event events.Event) error {
	c.mu.Lock()
	c.generations[event.GroupID]++
	c.mu.Unlock()
	c.entries.Delete(event.GroupID)
	return nil
}

// generation returns the group's current generation. Read it before loading
// the data a ledger is computed from.
func (c *LedgerCache) generation(groupID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[groupID]
}

func (c *LedgerCache) get(groupID string) (*api.GetGroupLedgerResponse, bool) {
	v, ok := c.entries.Get(groupID)
	if !ok {
		return nil, false
	}
	entry := v.(cachedLedger)
	if entry.generation != c.generation(groupID) {
		return nil, false
	}
	return entry.resp, true
}

// set stores resp unless the group changed after generation was read.
func (c *LedgerCache) set(groupID string, generation uint64, resp *api.GetGroupLedgerResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[groupID] != generation {
		return
	}
	c.entries.SetDefault(groupID, cachedLedger{generation: generation, resp: resp})
}
