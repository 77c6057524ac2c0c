package narrative

import (
	"sync"
	"time"

	"panelprofits/internal/models"
)

// EventCache is the scheduler-owned in-memory view of active market events.
// The scheduler tick writes it; the adjustment engine and HTTP handlers read
// it concurrently, so every access goes through the lock.
type EventCache struct {
	mu     sync.RWMutex
	events map[string]models.NarrativeMarketEvent
}

func NewEventCache() *EventCache {
	return &EventCache{events: make(map[string]models.NarrativeMarketEvent)}
}

func (c *EventCache) Put(event models.NarrativeMarketEvent) {
	c.mu.Lock()
	c.events[event.ID] = event
	c.mu.Unlock()
}

func (c *EventCache) Delete(id string) {
	c.mu.Lock()
	delete(c.events, id)
	c.mu.Unlock()
}

func (c *EventCache) Get(id string) (models.NarrativeMarketEvent, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.events[id]
	return e, ok
}

// ActiveForAsset returns the events touching assetID whose windows cover now.
func (c *EventCache) ActiveForAsset(assetID string, now time.Time) []models.NarrativeMarketEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.NarrativeMarketEvent
	for _, e := range c.events {
		if !e.IsActive || e.ExpiredAt(now) || now.Before(e.EventStartTime) {
			continue
		}
		if e.Touches(assetID) {
			out = append(out, e)
		}
	}
	return out
}

// All returns a snapshot of every cached event.
func (c *EventCache) All() []models.NarrativeMarketEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.NarrativeMarketEvent, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e)
	}
	return out
}

// Rebuild replaces the cache contents wholesale, used at startup to restore
// state from the persisted active events.
func (c *EventCache) Rebuild(events []models.NarrativeMarketEvent) {
	fresh := make(map[string]models.NarrativeMarketEvent, len(events))
	for _, e := range events {
		fresh[e.ID] = e
	}
	c.mu.Lock()
	c.events = fresh
	c.mu.Unlock()
}

func (c *EventCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}
