package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"portfolio-chat-backend/internal/models"
)

// historyWindow is the number of trailing stored messages replayed to the
// model each turn. Older history stays persisted but is not resent.
const historyWindow = 6

type conversationStore interface {
	Find(ctx context.Context, conversationID string) (*models.Conversation, error)
	AppendTurn(ctx context.Context, conversationID string, userMsg, assistantMsg models.Message) error
}

type generator interface {
	Generate(ctx context.Context, history []models.Message, userMessage string) string
}

type turnLocker interface {
	Acquire(ctx context.Context, conversationID string) (func(), error)
}

// ChatService runs one conversation turn: load history, generate a reply,
// persist the new message pair. It holds no state between requests.
type ChatService struct {
	store  conversationStore
	model  generator
	locker turnLocker
}

func NewChatService(store conversationStore, model generator, locker turnLocker) *ChatService {
	return &ChatService{
		store:  store,
		model:  model,
		locker: locker,
	}
}

// HandleTurn processes a user message against the given conversation,
// creating the conversation if conversationID is empty. Inference failure
// never surfaces here (the generator falls back to canned text); a
// persistence write failure does.
func (s *ChatService) HandleTurn(ctx context.Context, message, conversationID string) (*models.ChatResponse, error) {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	// Serialize turns per conversation. If the lock backend is down we
	// run the turn unlocked rather than refuse it.
	if release, err := s.locker.Acquire(ctx, conversationID); err != nil {
		log.Printf("chat: turn lock for %s unavailable: %v", conversationID, err)
	} else {
		defer release()
	}

	var history []models.Message
	conv, err := s.store.Find(ctx, conversationID)
	if err != nil {
		// A failed history read degrades to a fresh conversation; the
		// stored document is untouched and the turn still completes.
		log.Printf("chat: failed to load history for %s: %v", conversationID, err)
	} else if conv != nil {
		history = conv.Messages
	}

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	reply := s.model.Generate(ctx, history, message)

	userMsg := models.Message{
		Role:      "user",
		Content:   message,
		Timestamp: time.Now(),
	}
	assistantMsg := models.Message{
		Role:      "assistant",
		Content:   reply,
		Timestamp: time.Now(),
	}

	if err := s.store.AppendTurn(ctx, conversationID, userMsg, assistantMsg); err != nil {
		return nil, err
	}

	return &models.ChatResponse{
		Response:       reply,
		ConversationID: conversationID,
		Timestamp:      time.Now(),
	}, nil
}
