package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/rafiansyah/docqa-backend/models"
)

// ==== FAKES ====

type memDocumentStore struct {
	docs map[uuid.UUID]*models.Document
}

func newMemDocumentStore() *memDocumentStore {
	return &memDocumentStore{docs: make(map[uuid.UUID]*models.Document)}
}

func (m *memDocumentStore) Save(doc *models.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	m.docs[doc.ID] = doc
	return nil
}

func (m *memDocumentStore) GetOwned(id, ownerID uuid.UUID) (*models.Document, error) {
	doc, ok := m.docs[id]
	if !ok || doc.UserID != ownerID {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (m *memDocumentStore) ListByOwner(ownerID uuid.UUID) ([]models.Document, error) {
	var out []models.Document
	for _, doc := range m.docs {
		if doc.UserID == ownerID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (m *memDocumentStore) Delete(id uuid.UUID) error {
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

type memChatStore struct {
	sessions  map[uuid.UUID]*models.ChatSession
	exchanges []models.ChatExchange
}

func newMemChatStore() *memChatStore {
	return &memChatStore{sessions: make(map[uuid.UUID]*models.ChatSession)}
}

func (m *memChatStore) EnsureSession(userID uuid.UUID, sessionID *uuid.UUID, firstQuestion string) (*models.ChatSession, error) {
	if sessionID != nil {
		if session, ok := m.sessions[*sessionID]; ok && session.UserID == userID {
			return session, nil
		}
	}
	session := &models.ChatSession{
		ID:     uuid.New(),
		UserID: userID,
		Title:  SessionTitle(firstQuestion),
	}
	m.sessions[session.ID] = session
	return session, nil
}

func (m *memChatStore) SaveExchange(ex *models.ChatExchange) error {
	m.exchanges = append(m.exchanges, *ex)
	return nil
}

func (m *memChatStore) History(userID uuid.UUID, limit int) ([]models.ChatExchange, error) {
	var out []models.ChatExchange
	for i := len(m.exchanges) - 1; i >= 0 && len(out) < limit; i-- {
		if m.exchanges[i].UserID == userID {
			out = append(out, m.exchanges[i])
		}
	}
	return out, nil
}

func (m *memChatStore) ListSessions(userID uuid.UUID) ([]models.ChatSession, error) {
	var out []models.ChatSession
	for _, session := range m.sessions {
		if session.UserID == userID {
			out = append(out, *session)
		}
	}
	return out, nil
}

type fakeInferencer struct {
	response   string
	err        error
	called     bool
	lastPrompt string
}

func (f *fakeInferencer) Complete(ctx context.Context, prompt string) (string, error) {
	f.called = true
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestService(docs *memDocumentStore, chats *memChatStore, lm *fakeInferencer, maxDocChars int) *ChatService {
	return NewChatService(docs, chats, lm, DefaultRelevancePolicy(), maxDocChars)
}

// ==== TESTS ====

func TestAskOutOfDomainRefusal(t *testing.T) {
	docs := newMemDocumentStore()
	chats := newMemChatStore()
	lm := &fakeInferencer{response: "tidak boleh sampai sini"}
	svc := newTestService(docs, chats, lm, 0)

	userID := uuid.New()
	result, err := svc.Ask(context.Background(), userID, "Siapa presiden Indonesia?", nil, nil)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if result.Answer != RefusalMessage {
		t.Errorf("Answer = %q, want pesan penolakan tetap", result.Answer)
	}
	if lm.called {
		t.Error("pertanyaan di luar domain tidak boleh diteruskan ke model")
	}
	if len(chats.exchanges) != 1 {
		t.Fatalf("penolakan tetap harus tercatat, got %d exchange", len(chats.exchanges))
	}
	if chats.exchanges[0].Answer != RefusalMessage {
		t.Errorf("jawaban tersimpan = %q, want pesan penolakan", chats.exchanges[0].Answer)
	}
}

func TestAskWithDocumentContext(t *testing.T) {
	docs := newMemDocumentStore()
	chats := newMemChatStore()
	lm := &fakeInferencer{response: "Metode yang digunakan adalah eksperimen kuantitatif."}
	svc := newTestService(docs, chats, lm, 0)

	userID := uuid.New()
	doc := &models.Document{
		ID:            uuid.New(),
		UserID:        userID,
		OriginalName:  "skripsi.txt",
		ExtractedText: "Metode: eksperimen kuantitatif.",
	}
	docs.Save(doc)

	result, err := svc.Ask(context.Background(), userID, "Apa metode penelitian yang digunakan?", []uuid.UUID{doc.ID}, nil)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if !lm.called {
		t.Fatal("model harus dipanggil untuk pertanyaan dalam domain")
	}
	if !strings.Contains(lm.lastPrompt, "Metode: eksperimen kuantitatif.") {
		t.Errorf("prompt harus memuat isi dokumen, got %q", lm.lastPrompt)
	}
	if !strings.Contains(lm.lastPrompt, "skripsi.txt") {
		t.Errorf("prompt harus menyebut nama dokumen, got %q", lm.lastPrompt)
	}
	if result.Answer != lm.response {
		t.Errorf("Answer = %q, want jawaban stub", result.Answer)
	}
	if len(chats.exchanges) != 1 {
		t.Fatalf("exchange harus tersimpan, got %d", len(chats.exchanges))
	}
	if chats.exchanges[0].Answer != lm.response {
		t.Errorf("jawaban tersimpan = %q, want %q", chats.exchanges[0].Answer, lm.response)
	}
	if !strings.Contains(string(chats.exchanges[0].DocumentIDs), doc.ID.String()) {
		t.Errorf("id dokumen yang dirujuk harus tersimpan, got %s", chats.exchanges[0].DocumentIDs)
	}
}

func TestAskSkipsForeignDocuments(t *testing.T) {
	docs := newMemDocumentStore()
	chats := newMemChatStore()
	lm := &fakeInferencer{response: "jawaban"}
	svc := newTestService(docs, chats, lm, 0)

	owner := uuid.New()
	intruder := uuid.New()
	doc := &models.Document{
		ID:            uuid.New(),
		UserID:        owner,
		OriginalName:  "rahasia.txt",
		ExtractedText: "Data sampel penelitian rahasia.",
	}
	docs.Save(doc)

	_, err := svc.Ask(context.Background(), intruder, "Apa hasil penelitian ini?", []uuid.UUID{doc.ID, uuid.New()}, nil)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if strings.Contains(lm.lastPrompt, "rahasia") {
		t.Errorf("dokumen milik user lain tidak boleh masuk prompt: %q", lm.lastPrompt)
	}
	if string(chats.exchanges[0].DocumentIDs) != "[]" {
		t.Errorf("tidak ada dokumen valid yang dirujuk, got %s", chats.exchanges[0].DocumentIDs)
	}
}

func TestAskTruncatesDocumentContext(t *testing.T) {
	docs := newMemDocumentStore()
	chats := newMemChatStore()
	lm := &fakeInferencer{response: "jawaban"}
	svc := newTestService(docs, chats, lm, 20)

	userID := uuid.New()
	doc := &models.Document{
		ID:            uuid.New(),
		UserID:        userID,
		OriginalName:  "panjang.txt",
		ExtractedText: strings.Repeat("x", 100),
	}
	docs.Save(doc)

	if _, err := svc.Ask(context.Background(), userID, "Apa kesimpulan dokumen ini?", []uuid.UUID{doc.ID}, nil); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if strings.Contains(lm.lastPrompt, strings.Repeat("x", 21)) {
		t.Error("konteks dokumen harus dipotong sesuai batas karakter")
	}
	if !strings.Contains(lm.lastPrompt, strings.Repeat("x", 20)) {
		t.Error("potongan awal dokumen harus tetap masuk prompt")
	}
}

func TestAskInferenceFailureFallback(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"transport gagal", fmt.Errorf("%w: connection refused", ErrInferenceUnavailable), FallbackUnavailable},
		{"status non-2xx", fmt.Errorf("%w: status 500", ErrInferenceBadStatus), FallbackSystemError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chats := newMemChatStore()
			lm := &fakeInferencer{err: tt.err}
			svc := newTestService(newMemDocumentStore(), chats, lm, 0)

			result, err := svc.Ask(context.Background(), uuid.New(), "Apa metode penelitian yang digunakan?", nil, nil)
			if err != nil {
				t.Fatalf("kegagalan inferensi tidak boleh jadi error keras: %v", err)
			}
			if result.Answer != tt.wantMsg {
				t.Errorf("Answer = %q, want %q", result.Answer, tt.wantMsg)
			}
			if len(chats.exchanges) != 1 || chats.exchanges[0].Answer != tt.wantMsg {
				t.Error("jawaban fallback tetap harus tercatat di riwayat")
			}
		})
	}
}

func TestAskSessionHandling(t *testing.T) {
	chats := newMemChatStore()
	lm := &fakeInferencer{response: "jawaban"}
	svc := newTestService(newMemDocumentStore(), chats, lm, 0)
	userID := uuid.New()

	// Tanpa session id: sesi baru dibuat
	first, err := svc.Ask(context.Background(), userID, "Apa teori yang dipakai penelitian ini?", nil, nil)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if first.SessionID == uuid.Nil {
		t.Fatal("sesi baru harus dibuat")
	}

	// Dengan session id yang sama: tidak membuat sesi baru
	second, err := svc.Ask(context.Background(), userID, "Lanjutkan pembahasan sebelumnya tentang metode", nil, &first.SessionID)
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if second.SessionID != first.SessionID {
		t.Errorf("sesi harus dipakai ulang: %s != %s", second.SessionID, first.SessionID)
	}
	if len(chats.sessions) != 1 {
		t.Errorf("jumlah sesi = %d, want 1", len(chats.sessions))
	}
}

func TestSessionTitle(t *testing.T) {
	short := "Apa itu UNNES?"
	if got := SessionTitle(short); got != short {
		t.Errorf("judul pertanyaan pendek harus utuh, got %q", got)
	}

	long := strings.Repeat("pertanyaan panjang ", 10)
	got := SessionTitle(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("judul panjang harus dipotong dengan '...', got %q", got)
	}
}
