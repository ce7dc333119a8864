package jobs

import (
	"time"

	tasks "github.com/ultraselfai/primebet-sub001/task"
)

// StartSessionPruner clears expired session rows every hour.
func StartSessionPruner() {
	ticker := time.NewTicker(1 * time.Hour)
	go func() {
		for {
			<-ticker.C
			tasks.PruneExpiredSessions()
		}
	}()
}
