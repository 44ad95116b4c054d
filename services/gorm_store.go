package services

import (
	"errors"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafiansyah/docqa-backend/models"
)

// GormStore mengimplementasikan DocumentStore dan ChatStore di atas GORM
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Save(doc *models.Document) error {
	return s.db.Create(doc).Error
}

func (s *GormStore) GetOwned(id, ownerID uuid.UUID) (*models.Document, error) {
	var doc models.Document
	err := s.db.First(&doc, "id = ? AND user_id = ?", id, ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *GormStore) ListByOwner(ownerID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	err := s.db.Where("user_id = ?", ownerID).Order("uploaded_at DESC").Find(&docs).Error
	return docs, err
}

func (s *GormStore) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.Document{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) EnsureSession(userID uuid.UUID, sessionID *uuid.UUID, firstQuestion string) (*models.ChatSession, error) {
	if sessionID != nil {
		var session models.ChatSession
		err := s.db.First(&session, "id = ? AND user_id = ?", *sessionID, userID).Error
		if err == nil {
			return &session, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// Sesi tidak ditemukan / bukan milik user: mulai sesi baru
	}

	session := models.ChatSession{
		ID:     uuid.New(),
		UserID: userID,
		Title:  SessionTitle(firstQuestion),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *GormStore) SaveExchange(ex *models.ChatExchange) error {
	return s.db.Create(ex).Error
}

func (s *GormStore) History(userID uuid.UUID, limit int) ([]models.ChatExchange, error) {
	var exchanges []models.ChatExchange
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&exchanges).Error
	return exchanges, err
}

func (s *GormStore) ListSessions(userID uuid.UUID) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}

// SessionTitle membentuk judul sesi dari potongan awal pertanyaan pertama
func SessionTitle(question string) string {
	const maxTitle = 50
	if utf8.RuneCountInString(question) <= maxTitle {
		return question
	}
	return string([]rune(question)[:maxTitle]) + "..."
}
