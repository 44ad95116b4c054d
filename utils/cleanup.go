package utils

import (
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/rafiansyah/docqa-backend/models"
)

// CleanupOldExchanges menghapus riwayat chat yang lebih tua dari `days` hari
func CleanupOldExchanges(db *gorm.DB, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	result := db.Where("created_at < ?", cutoff).Delete(&models.ChatExchange{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// StartRetentionJob menjalankan pembersihan riwayat chat secara berkala.
// days <= 0 berarti job dimatikan.
func StartRetentionJob(db *gorm.DB, days int) {
	if days <= 0 {
		return
	}

	run := func() {
		deleted, err := CleanupOldExchanges(db, days)
		if err != nil {
			log.Printf("Gagal membersihkan riwayat chat: %v", err)
			return
		}
		if deleted > 0 {
			log.Printf("Menghapus %d riwayat chat lebih tua dari %d hari", deleted, days)
		}
	}

	// Jalankan sekali saat startup
	log.Println("Menjalankan pembersihan riwayat chat pertama...")
	run()

	ticker := time.NewTicker(24 * time.Hour)
	go func() {
		defer ticker.Stop()
		for range ticker.C {
			run()
		}
	}()

	log.Printf("Job retensi riwayat chat aktif (setiap 24 jam, retensi %d hari)", days)
}
