package tasks

import (
	"log"
	"time"

	"github.com/ultraselfai/primebet-sub001/database"
	"github.com/ultraselfai/primebet-sub001/models"
)

// PruneExpiredSessions deletes session rows past their expiry. Run
// periodically from the jobs scheduler.
func PruneExpiredSessions() {
	result := database.DB.
		Where("expires_at < ?", time.Now()).
		Delete(&models.Session{})

	if result.Error != nil {
		log.Println("❌ Failed to prune expired sessions:", result.Error)
	} else if result.RowsAffected > 0 {
		log.Printf("✅ Pruned %d expired sessions\n", result.RowsAffected)
	}
}
