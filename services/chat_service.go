package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/rafiansyah/docqa-backend/models"
)

// Pesan tetap yang dilihat pengguna. Jangan diubah: klien lama mencocokkan
// string ini apa adanya.
const (
	RefusalMessage      = "Maaf, tolong berikan pertanyaan yang relevan dengan paper atau Universitas Negeri Semarang."
	FallbackSystemError = "Maaf, terjadi kesalahan pada sistem AI. Silakan coba lagi."
	FallbackUnavailable = "Maaf, sistem AI sedang tidak tersedia. Silakan coba lagi nanti."
)

// Inferencer adalah kontrak minimal ke model bahasa
type Inferencer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatService mengorkestrasi satu pertanyaan: gerbang relevansi, pengumpulan
// konteks dokumen, pemanggilan model, dan pencatatan riwayat. Semua jalur —
// jawaban model, penolakan, maupun fallback — selalu berakhir dengan satu
// ChatExchange tersimpan.
type ChatService struct {
	documents   DocumentStore
	chats       ChatStore
	lm          Inferencer
	policy      RelevancePolicy
	maxDocChars int
}

func NewChatService(documents DocumentStore, chats ChatStore, lm Inferencer, policy RelevancePolicy, maxDocChars int) *ChatService {
	if maxDocChars <= 0 {
		maxDocChars = 4000
	}
	return &ChatService{
		documents:   documents,
		chats:       chats,
		lm:          lm,
		policy:      policy,
		maxDocChars: maxDocChars,
	}
}

// ChatResult dikembalikan ke handler HTTP
type ChatResult struct {
	Answer     string    `json:"response"`
	SessionID  uuid.UUID `json:"session_id"`
	ExchangeID uuid.UUID `json:"exchange_id"`
}

// Ask memproses satu pertanyaan untuk user tertentu
func (s *ChatService) Ask(ctx context.Context, userID uuid.UUID, question string, docIDs []uuid.UUID, sessionID *uuid.UUID) (*ChatResult, error) {
	session, err := s.chats.EnsureSession(userID, sessionID, question)
	if err != nil {
		return nil, err
	}

	if !s.policy.IsRelevant(question) {
		return s.record(userID, session.ID, question, RefusalMessage, nil)
	}

	// Kumpulkan konteks dari dokumen yang dirujuk. Dokumen yang tidak
	// ditemukan atau bukan milik user dilewati tanpa error.
	var contextBuilder strings.Builder
	var usedIDs []uuid.UUID
	for _, id := range docIDs {
		doc, err := s.documents.GetOwned(id, userID)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			continue
		}
		text := truncateRunes(doc.ExtractedText, s.maxDocChars)
		fmt.Fprintf(&contextBuilder, "\n--- %s ---\n%s\n", doc.OriginalName, text)
		usedIDs = append(usedIDs, id)
	}

	prompt := buildPrompt(contextBuilder.String(), question)

	answer, err := s.lm.Complete(ctx, prompt)
	if err != nil {
		// Kegagalan inferensi tidak boleh jadi error keras ke pengguna;
		// fallback tetap dicatat sebagai jawaban agar riwayat lengkap.
		log.Printf("Pemanggilan model gagal: %v", err)
		if errors.Is(err, ErrInferenceBadStatus) {
			answer = FallbackSystemError
		} else {
			answer = FallbackUnavailable
		}
	}

	return s.record(userID, session.ID, question, answer, usedIDs)
}

func (s *ChatService) record(userID, sessionID uuid.UUID, question, answer string, docIDs []uuid.UUID) (*ChatResult, error) {
	ids := make([]string, 0, len(docIDs))
	for _, id := range docIDs {
		ids = append(ids, id.String())
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}

	exchange := models.ChatExchange{
		ID:          uuid.New(),
		UserID:      userID,
		SessionID:   sessionID,
		Question:    question,
		Answer:      answer,
		DocumentIDs: datatypes.JSON(encoded),
	}
	if err := s.chats.SaveExchange(&exchange); err != nil {
		return nil, err
	}

	return &ChatResult{
		Answer:     answer,
		SessionID:  sessionID,
		ExchangeID: exchange.ID,
	}, nil
}

func buildPrompt(documentsContent, question string) string {
	if strings.TrimSpace(documentsContent) != "" {
		return fmt.Sprintf(
			"Berdasarkan dokumen berikut:\n%s\n\nPertanyaan: %s\n\nTolong berikan jawaban yang akurat berdasarkan konten dokumen di atas.",
			documentsContent, question,
		)
	}
	return fmt.Sprintf(
		"Pertanyaan tentang penelitian/paper atau Universitas Negeri Semarang: %s\n\nBerikan jawaban yang informatif dan akurat.",
		question,
	)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
