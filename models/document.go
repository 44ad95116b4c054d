package models

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User          User      `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	OriginalName  string    `gorm:"size:255;not null" json:"original_name"`
	FilePath      string    `gorm:"type:text;not null" json:"file_path"`
	FileType      string    `gorm:"size:50" json:"file_type"`
	FileSize      int64     `json:"file_size"` // bytes
	ExtractedText string    `gorm:"type:text" json:"extracted_text"` // kosong bila ekstraksi gagal
	CharCount     int       `json:"char_count"`
	WordCount     int       `json:"word_count"`
	Preview       string    `gorm:"size:255" json:"preview"`
	UploadedAt    time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
