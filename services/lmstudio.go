package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// Transport error / timeout ke server inferensi
	ErrInferenceUnavailable = errors.New("server inferensi tidak dapat dihubungi")
	// Server merespons dengan status non-2xx atau body tidak valid
	ErrInferenceBadStatus = errors.New("server inferensi mengembalikan respons gagal")
)

const lmSystemPrompt = "Anda adalah asisten AI yang membantu menganalisis dokumen penelitian dan menjawab pertanyaan tentang Universitas Negeri Semarang (UNNES). Berikan jawaban yang akurat, relevan, dan berdasarkan konten dokumen yang diberikan."

// LMStudioClient memanggil endpoint chat-completions LM Studio lokal.
// Satu percobaan per pertanyaan, tanpa retry; timeout dibatasi.
type LMStudioClient struct {
	URL         string
	Model       string
	Temperature float64
	MaxTokens   int

	httpClient *http.Client
}

func NewLMStudioClient(url, model string, temperature float64, maxTokens int, timeout time.Duration) *LMStudioClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LMStudioClient{
		URL:         url,
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type lmMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type lmRequest struct {
	Model       string      `json:"model"`
	Messages    []lmMessage `json:"messages"`
	Temperature float64     `json:"temperature"`
	MaxTokens   int         `json:"max_tokens"`
}

type lmResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete mengirim prompt ke model dan mengembalikan teks jawabannya
func (c *LMStudioClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload := lmRequest{
		Model: c.Model,
		Messages: []lmMessage{
			{Role: "system", Content: lmSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gagal menyusun request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gagal membuat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInferenceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrInferenceBadStatus, resp.StatusCode)
	}

	var data lmResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("%w: body tidak valid: %v", ErrInferenceBadStatus, err)
	}
	if len(data.Choices) == 0 {
		return "", fmt.Errorf("%w: respons tanpa choices", ErrInferenceBadStatus)
	}

	return data.Choices[0].Message.Content, nil
}
