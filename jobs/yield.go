package jobs

import (
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/wallet"
)

// StartYieldScheduler accrues investment yields on funded wallets once per
// interval. Disabled unless YIELD_DAILY_RATE parses to a positive decimal.
func StartYieldScheduler() {
	rate, err := decimal.NewFromString(os.Getenv("YIELD_DAILY_RATE"))
	if err != nil || !rate.IsPositive() {
		log.Println("⚠️  Yield scheduler disabled (YIELD_DAILY_RATE not set)")
		return
	}

	interval := 24 * time.Hour
	if v := os.Getenv("YIELD_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}

	ticker := time.NewTicker(interval)
	go func() {
		for {
			<-ticker.C
			n, err := wallet.AccrueYields(database.DB, rate)
			if err != nil {
				log.Printf("❌ yield accrual failed: %v", err)
				continue
			}
			log.Printf("✅ yield accrual: %d wallets at rate %s", n, rate)
		}
	}()

	log.Printf("✅ Yield scheduler running every %s at rate %s", interval, rate)
}
