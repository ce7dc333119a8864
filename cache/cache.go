// Package cache is the short-TTL read cache in front of the wallet store.
// It absorbs bursts of balance checks during gameplay and is never the
// authority: every debit re-checks the database and every successful
// mutation invalidates the entry before the handler responds.
package cache

import (
	"log"

	"github.com/shopspring/decimal"
)

// DefaultTTL bounds how stale a cached balance may be served.
const DefaultTTL = 5 // seconds

type BalanceCache interface {
	Get(userID uint) (decimal.Decimal, bool)
	Set(userID uint, balance decimal.Decimal)
	Invalidate(userID uint)
}

// Balances is built once in main (or in test setup) and used by the
// controllers. Defaults to the in-process store.
var Balances BalanceCache = NewMemory(DefaultTTL)

// Setup selects the backend. With a Redis address the cache is shared across
// instances, bounding staleness in a horizontally scaled deployment; without
// one it stays process-local.
func Setup(redisAddr string) {
	if redisAddr == "" {
		Balances = NewMemory(DefaultTTL)
		log.Println("✅ Balance cache: in-memory, TTL", DefaultTTL, "s")
		return
	}

	rc, err := NewRedis(redisAddr, DefaultTTL)
	if err != nil {
		log.Printf("⚠️  Redis unavailable (%v), falling back to in-memory cache", err)
		Balances = NewMemory(DefaultTTL)
		return
	}
	Balances = rc
	log.Println("✅ Balance cache: redis at", redisAddr)
}
