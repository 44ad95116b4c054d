package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rafiansyah/docqa-backend/services"
)

type ChatController struct {
	Service *services.ChatService
	Store   services.ChatStore
}

func NewChatController(service *services.ChatService, store services.ChatStore) *ChatController {
	return &ChatController{Service: service, Store: store}
}

type ChatInput struct {
	Message     string   `json:"message" binding:"required"`
	DocumentIDs []string `json:"document_ids"`
	SessionID   *string  `json:"session_id"`
}

// Chat memproses satu pertanyaan lewat pipeline QA
func (ctl *ChatController) Chat(c *gin.Context) {
	uid, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id tidak valid"})
		return
	}

	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// ID dokumen yang formatnya salah diperlakukan sama dengan yang tidak
	// ditemukan: dilewati tanpa menggagalkan pertanyaan.
	docIDs := make([]uuid.UUID, 0, len(input.DocumentIDs))
	for _, raw := range input.DocumentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		docIDs = append(docIDs, id)
	}

	var sessionID *uuid.UUID
	if input.SessionID != nil && *input.SessionID != "" {
		id, err := uuid.Parse(*input.SessionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id tidak valid"})
			return
		}
		sessionID = &id
	}

	result, err := ctl.Service.Ask(c.Request.Context(), uid, input.Message, docIDs, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memproses pertanyaan", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetChatHistory mengembalikan 20 percakapan terakhir milik user
func (ctl *ChatController) GetChatHistory(c *gin.Context) {
	uid, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id tidak valid"})
		return
	}

	exchanges, err := ctl.Store.History(uid, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil riwayat chat"})
		return
	}

	history := make([]gin.H, 0, len(exchanges))
	for _, ex := range exchanges {
		history = append(history, gin.H{
			"id":           ex.ID,
			"session_id":   ex.SessionID,
			"message":      ex.Question,
			"response":     ex.Answer,
			"document_ids": ex.DocumentIDs,
			"timestamp":    ex.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// GetSessions mengembalikan daftar sesi chat milik user
func (ctl *ChatController) GetSessions(c *gin.Context) {
	uid, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id tidak valid"})
		return
	}

	sessions, err := ctl.Store.ListSessions(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil daftar sesi"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
