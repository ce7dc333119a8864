package cache

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ultraselfai/primebet-sub001/metrics"
)

type entry struct {
	balance decimal.Decimal
	at      time.Time
}

// Memory is a keyed map with per-entry timestamps. A value is served only
// while younger than the TTL.
type Memory struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[uint]entry
}

func NewMemory(ttlSeconds int) *Memory {
	return &Memory{
		ttl: time.Duration(ttlSeconds) * time.Second,
		m:   make(map[uint]entry),
	}
}

func (c *Memory) Get(userID uint) (decimal.Decimal, bool) {
	c.mu.RLock()
	e, ok := c.m[userID]
	c.mu.RUnlock()

	if !ok || time.Since(e.at) >= c.ttl {
		metrics.CacheEvents.WithLabelValues("miss").Inc()
		return decimal.Zero, false
	}
	metrics.CacheEvents.WithLabelValues("hit").Inc()
	return e.balance, true
}

func (c *Memory) Set(userID uint, balance decimal.Decimal) {
	c.mu.Lock()
	c.m[userID] = entry{balance: balance, at: time.Now()}
	c.mu.Unlock()
}

func (c *Memory) Invalidate(userID uint) {
	c.mu.Lock()
	delete(c.m, userID)
	c.mu.Unlock()
	metrics.CacheEvents.WithLabelValues("invalidate").Inc()
}
