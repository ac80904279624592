package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"portfolio-chat-backend/internal/models"
)

type fakeStore struct {
	conv    *models.Conversation
	findErr error

	appendErr  error
	appendedID string
	appended   []models.Message
}

func (f *fakeStore) Find(ctx context.Context, conversationID string) (*models.Conversation, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.conv, nil
}

func (f *fakeStore) AppendTurn(ctx context.Context, conversationID string, userMsg, assistantMsg models.Message) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appendedID = conversationID
	f.appended = append(f.appended, userMsg, assistantMsg)
	return nil
}

type fakeGenerator struct {
	reply       string
	gotHistory  []models.Message
	gotMessage  string
	invocations int
}

func (f *fakeGenerator) Generate(ctx context.Context, history []models.Message, userMessage string) string {
	f.invocations++
	f.gotHistory = history
	f.gotMessage = userMessage
	return f.reply
}

type fakeLocker struct {
	acquireErr error
	acquired   int
	released   int
}

func (f *fakeLocker) Acquire(ctx context.Context, conversationID string) (func(), error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	f.acquired++
	return func() { f.released++ }, nil
}

func TestHandleTurn_GeneratesConversationID(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGenerator{reply: "hi"}

	svc := NewChatService(store, gen, &fakeLocker{})
	resp, err := svc.HandleTurn(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}

	if resp.ConversationID == "" {
		t.Fatal("Expected a generated conversation ID")
	}
	if _, err := uuid.Parse(resp.ConversationID); err != nil {
		t.Errorf("Expected a UUID conversation ID, got %q", resp.ConversationID)
	}
	if store.appendedID != resp.ConversationID {
		t.Errorf("Expected append against %q, got %q", resp.ConversationID, store.appendedID)
	}
}

func TestHandleTurn_KeepsSuppliedConversationID(t *testing.T) {
	store := &fakeStore{}
	svc := NewChatService(store, &fakeGenerator{reply: "hi"}, &fakeLocker{})

	resp, err := svc.HandleTurn(context.Background(), "hello", "conv-123")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}
	if resp.ConversationID != "conv-123" {
		t.Errorf("Expected conv-123, got %q", resp.ConversationID)
	}
}

func TestHandleTurn_AppendsUserThenAssistant(t *testing.T) {
	store := &fakeStore{}
	gen := &fakeGenerator{reply: "the reply"}
	svc := NewChatService(store, gen, &fakeLocker{})

	resp, err := svc.HandleTurn(context.Background(), "the question", "conv-1")
	if err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}

	if len(store.appended) != 2 {
		t.Fatalf("Expected 2 appended messages, got %d", len(store.appended))
	}
	userMsg, assistantMsg := store.appended[0], store.appended[1]

	if userMsg.Role != "user" || userMsg.Content != "the question" {
		t.Errorf("Unexpected user message: %+v", userMsg)
	}
	if assistantMsg.Role != "assistant" || assistantMsg.Content != "the reply" {
		t.Errorf("Unexpected assistant message: %+v", assistantMsg)
	}
	if assistantMsg.Timestamp.Before(userMsg.Timestamp) {
		t.Error("Assistant timestamp precedes user timestamp")
	}
	if userMsg.Timestamp.IsZero() || assistantMsg.Timestamp.IsZero() || resp.Timestamp.IsZero() {
		t.Error("Expected all timestamps to be assigned")
	}
	if resp.Response != "the reply" {
		t.Errorf("Expected response text %q, got %q", "the reply", resp.Response)
	}
}

func TestHandleTurn_HistoryWindow(t *testing.T) {
	tests := []struct {
		name       string
		stored     int
		wantWindow int
	}{
		{"no history", 0, 0},
		{"under the window", 4, 4},
		{"exactly the window", 6, 6},
		{"over the window", 10, 6},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var msgs []models.Message
			for i := 0; i < tc.stored; i++ {
				role := "user"
				if i%2 == 1 {
					role = "assistant"
				}
				msgs = append(msgs, models.Message{Role: role, Content: fmt.Sprintf("msg %d", i)})
			}

			store := &fakeStore{}
			if tc.stored > 0 {
				store.conv = &models.Conversation{ConversationID: "conv-1", Messages: msgs}
			}
			gen := &fakeGenerator{reply: "ok"}

			svc := NewChatService(store, gen, &fakeLocker{})
			if _, err := svc.HandleTurn(context.Background(), "next", "conv-1"); err != nil {
				t.Fatalf("HandleTurn failed: %v", err)
			}

			if len(gen.gotHistory) != tc.wantWindow {
				t.Fatalf("Expected history window of %d, got %d", tc.wantWindow, len(gen.gotHistory))
			}
			// most recent messages, original order preserved
			for i, m := range gen.gotHistory {
				want := fmt.Sprintf("msg %d", tc.stored-tc.wantWindow+i)
				if m.Content != want {
					t.Errorf("Window position %d: expected %q, got %q", i, want, m.Content)
				}
			}
		})
	}
}

func TestHandleTurn_AppendFailurePropagates(t *testing.T) {
	store := &fakeStore{appendErr: errors.New("write failed")}
	svc := NewChatService(store, &fakeGenerator{reply: "hi"}, &fakeLocker{})

	if _, err := svc.HandleTurn(context.Background(), "hello", "conv-1"); err == nil {
		t.Fatal("Expected error from failed append")
	}
}

func TestHandleTurn_FindFailureDegradesToEmptyHistory(t *testing.T) {
	store := &fakeStore{findErr: errors.New("read failed")}
	gen := &fakeGenerator{reply: "hi"}
	svc := NewChatService(store, gen, &fakeLocker{})

	resp, err := svc.HandleTurn(context.Background(), "hello", "conv-1")
	if err != nil {
		t.Fatalf("Expected turn to complete despite read failure, got %v", err)
	}
	if len(gen.gotHistory) != 0 {
		t.Errorf("Expected empty history, got %d messages", len(gen.gotHistory))
	}
	if resp.Response != "hi" {
		t.Errorf("Unexpected response %q", resp.Response)
	}
	if len(store.appended) != 2 {
		t.Errorf("Expected turn to be persisted, got %d messages", len(store.appended))
	}
}

func TestHandleTurn_LockFailureDoesNotBlockTurn(t *testing.T) {
	store := &fakeStore{}
	svc := NewChatService(store, &fakeGenerator{reply: "hi"}, &fakeLocker{acquireErr: errors.New("redis down")})

	if _, err := svc.HandleTurn(context.Background(), "hello", "conv-1"); err != nil {
		t.Fatalf("Expected turn to complete without lock, got %v", err)
	}
	if len(store.appended) != 2 {
		t.Errorf("Expected turn to be persisted, got %d messages", len(store.appended))
	}
}

func TestHandleTurn_LockAcquiredAndReleased(t *testing.T) {
	locker := &fakeLocker{}
	svc := NewChatService(&fakeStore{}, &fakeGenerator{reply: "hi"}, locker)

	if _, err := svc.HandleTurn(context.Background(), "hello", "conv-1"); err != nil {
		t.Fatalf("HandleTurn failed: %v", err)
	}
	if locker.acquired != 1 || locker.released != 1 {
		t.Errorf("Expected 1 acquire and 1 release, got %d/%d", locker.acquired, locker.released)
	}
}
