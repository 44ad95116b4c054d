package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin" // Administrator sistem
	RoleDosen UserRole = "dosen" // Dosen (akun dibuat oleh admin)
	RoleUser  UserRole = "user"  // Mahasiswa / pengguna biasa
)

// ValidRole memeriksa apakah string termasuk role yang dikenal
func ValidRole(role string) bool {
	switch UserRole(role) {
	case RoleAdmin, RoleDosen, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"size:150" json:"email"`
	Password  string     `gorm:"type:text;not null" json:"-"`
	Role      UserRole   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive  *bool      `gorm:"not null;default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relasi
	Documents []Document     `json:"documents,omitempty"`
	Sessions  []ChatSession  `json:"sessions,omitempty"`
	Exchanges []ChatExchange `json:"exchanges,omitempty"`
}
