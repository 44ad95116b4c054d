package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatSession mengelompokkan beberapa percakapan milik satu user.
// Judul diambil dari potongan pertanyaan pertama.
type ChatSession struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Title     string    `gorm:"size:100" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Exchanges []ChatExchange `gorm:"foreignKey:SessionID" json:"exchanges,omitempty"`
}

// ChatExchange adalah satu pasang tanya-jawab. Append-only: tidak pernah
// diubah setelah dibuat, hanya terhapus lewat cascade atau pembersihan retensi.
type ChatExchange struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User           `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	SessionID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"session_id"`
	Question    string         `gorm:"type:text;not null" json:"question"`
	Answer      string         `gorm:"type:text" json:"answer"`
	DocumentIDs datatypes.JSON `json:"document_ids"` // daftar id dokumen yang dirujuk
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}
