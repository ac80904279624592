package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"portfolio-chat-backend/internal/models"
)

// maxMessageLen caps inbound messages to protect the inference call.
const maxMessageLen = 4000

type turnOrchestrator interface {
	HandleTurn(ctx context.Context, message, conversationID string) (*models.ChatResponse, error)
}

type conversationRepository interface {
	Find(ctx context.Context, conversationID string) (*models.Conversation, error)
	ListRecent(ctx context.Context, limit int64) ([]models.ConversationSummary, error)
	Delete(ctx context.Context, conversationID string) (bool, error)
}

type ChatHandler struct {
	chatService      turnOrchestrator
	conversationRepo conversationRepository
}

func NewChatHandler(chatService turnOrchestrator, conversationRepo conversationRepository) *ChatHandler {
	return &ChatHandler{
		chatService:      chatService,
		conversationRepo: conversationRepo,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	if utf8.RuneCountInString(req.Message) > maxMessageLen {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is too long", r))
		return
	}

	resp, err := h.chatService.HandleTurn(r.Context(), req.Message, req.ConversationID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save conversation", r))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")

	conv, err := h.conversationRepo.Find(r.Context(), conversationID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load conversation", r))
		return
	}
	if conv == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Conversation not found", r))
		return
	}

	messages := conv.Messages
	if messages == nil {
		messages = []models.Message{}
	}

	writeJSON(w, http.StatusOK, models.ConversationHistory{
		ConversationID: conv.ConversationID,
		Messages:       messages,
	})
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.conversationRepo.ListRecent(r.Context(), 10)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to list conversations", r))
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")

	deleted, err := h.conversationRepo.Delete(r.Context(), conversationID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete conversation", r))
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Conversation not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation deleted successfully"})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}
