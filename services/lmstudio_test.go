package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLMStudioClientComplete(t *testing.T) {
	var got lmRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Metode penelitiannya eksperimen."}}]}`))
	}))
	defer server.Close()

	client := NewLMStudioClient(server.URL, "mistral-nemo-instruct-2407", 0.7, 1000, 5*time.Second)
	answer, err := client.Complete(context.Background(), "Apa metode penelitiannya?")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if answer != "Metode penelitiannya eksperimen." {
		t.Errorf("answer = %q", answer)
	}
	if got.Model != "mistral-nemo-instruct-2407" {
		t.Errorf("model = %q", got.Model)
	}
	if got.Temperature != 0.7 {
		t.Errorf("temperature = %v", got.Temperature)
	}
	if got.MaxTokens != 1000 {
		t.Errorf("max_tokens = %d", got.MaxTokens)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Errorf("messages harus [system, user], got %+v", got.Messages)
	}
	if got.Messages[1].Content != "Apa metode penelitiannya?" {
		t.Errorf("isi pesan user = %q", got.Messages[1].Content)
	}
}

func TestLMStudioClientBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewLMStudioClient(server.URL, "m", 0.7, 100, time.Second)
	_, err := client.Complete(context.Background(), "pertanyaan")
	if !errors.Is(err, ErrInferenceBadStatus) {
		t.Fatalf("error = %v, want ErrInferenceBadStatus", err)
	}
}

func TestLMStudioClientEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewLMStudioClient(server.URL, "m", 0.7, 100, time.Second)
	_, err := client.Complete(context.Background(), "pertanyaan")
	if !errors.Is(err, ErrInferenceBadStatus) {
		t.Fatalf("error = %v, want ErrInferenceBadStatus", err)
	}
}

func TestLMStudioClientUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // koneksi pasti ditolak

	client := NewLMStudioClient(server.URL, "m", 0.7, 100, time.Second)
	_, err := client.Complete(context.Background(), "pertanyaan")
	if !errors.Is(err, ErrInferenceUnavailable) {
		t.Fatalf("error = %v, want ErrInferenceUnavailable", err)
	}
}

func TestLMStudioClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := NewLMStudioClient(server.URL, "m", 0.7, 100, 100*time.Millisecond)
	start := time.Now()
	_, err := client.Complete(context.Background(), "pertanyaan")
	if !errors.Is(err, ErrInferenceUnavailable) {
		t.Fatalf("error = %v, want ErrInferenceUnavailable", err)
	}
	if time.Since(start) > time.Second {
		t.Error("timeout client tidak berlaku")
	}
}
