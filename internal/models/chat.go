package models

import "time"

// Message is a single entry in a conversation.
type Message struct {
	Role      string    `bson:"role" json:"role"` // "user" or "assistant"
	Content   string    `bson:"content" json:"content"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Conversation is the stored document: an append-only message sequence
// keyed by an opaque identifier.
type Conversation struct {
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	Messages       []Message `bson:"messages" json:"messages"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}

// ConversationSummary is the listing projection: identifier, recency
// marker and the last message only.
type ConversationSummary struct {
	ConversationID string    `bson:"conversation_id" json:"conversation_id"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
	Messages       []Message `bson:"messages" json:"messages"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is the reply from a completed turn.
type ChatResponse struct {
	Response       string    `json:"response"`
	ConversationID string    `json:"conversation_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// ConversationHistory is the full-conversation fetch response.
type ConversationHistory struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
}

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
