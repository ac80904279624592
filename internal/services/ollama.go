package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"portfolio-chat-backend/internal/config"
	"portfolio-chat-backend/internal/models"
)

// OllamaService talks to a local Ollama server over its chat API.
type OllamaService struct {
	host       string
	model      string
	options    ollamaOptions
	httpClient *http.Client
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	NumPredict  int     `json:"num_predict"`
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
	TopP        float64 `json:"top_p"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

func NewOllamaService(cfg *config.Config) *OllamaService {
	return &OllamaService{
		host:  cfg.OllamaHost,
		model: cfg.OllamaModel,
		options: ollamaOptions{
			NumPredict:  cfg.OllamaNumPredict,
			Temperature: cfg.OllamaTemperature,
			NumCtx:      cfg.OllamaNumCtx,
			TopP:        cfg.OllamaTopP,
		},
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.OllamaTimeoutSeconds) * time.Second,
		},
	}
}

// Generate produces a reply for the given history window and user message.
// It never fails: every error path collapses into one of the canned
// fallback replies, so a turn always completes from the caller's view.
func (s *OllamaService) Generate(ctx context.Context, history []models.Message, userMessage string) string {
	messages := make([]ollamaMessage, 0, len(history)+2)
	messages = append(messages, ollamaMessage{Role: "system", Content: personaPrompt})
	for _, m := range history {
		messages = append(messages, ollamaMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: userMessage})

	payload := ollamaChatRequest{
		Model:    s.model,
		Messages: messages,
		Stream:   false,
		Options:  s.options,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ollama: failed to marshal request: %v", err)
		return fallbackError
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		log.Printf("ollama: failed to build request: %v", err)
		return fallbackError
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("ollama: request failed: %v", err)
		return fallbackError
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("ollama: unexpected status %d", resp.StatusCode)
		return fallbackUnavailable
	}

	var result ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("ollama: failed to decode response: %v", err)
		return fallbackError
	}

	return result.Message.Content
}

// Ping probes the Ollama server's model listing endpoint.
func (s *OllamaService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.host+"/api/tags", nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}
