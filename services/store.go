package services

import (
	"errors"

	"github.com/google/uuid"

	"github.com/rafiansyah/docqa-backend/models"
)

// ErrNotFound dikembalikan saat dokumen/sesi tidak ada atau bukan milik pemanggil
var ErrNotFound = errors.New("data tidak ditemukan")

// DocumentStore adalah akses dokumen yang dikonsumsi pipeline chat.
// Setiap pembacaan wajib menyertakan pemilik.
type DocumentStore interface {
	Save(doc *models.Document) error
	GetOwned(id, ownerID uuid.UUID) (*models.Document, error)
	ListByOwner(ownerID uuid.UUID) ([]models.Document, error)
	Delete(id uuid.UUID) error
}

// ChatStore menyimpan sesi dan riwayat tanya-jawab
type ChatStore interface {
	// EnsureSession mengembalikan sesi milik user; sessionID nil atau tidak
	// ditemukan berarti sesi baru dibuat dengan judul dari pertanyaan pertama.
	EnsureSession(userID uuid.UUID, sessionID *uuid.UUID, firstQuestion string) (*models.ChatSession, error)
	SaveExchange(ex *models.ChatExchange) error
	History(userID uuid.UUID, limit int) ([]models.ChatExchange, error)
	ListSessions(userID uuid.UUID) ([]models.ChatSession, error)
}
