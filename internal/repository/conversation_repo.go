package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"portfolio-chat-backend/internal/models"
)

// queryTimeout bounds every call against the collection; the driver's own
// defaults would otherwise let a dead connection hang a request.
const queryTimeout = 5 * time.Second

type ConversationRepo struct {
	coll *mongo.Collection
}

func NewConversationRepo(db *mongo.Database) *ConversationRepo {
	return &ConversationRepo{coll: db.Collection("conversations")}
}

// EnsureIndexes creates the unique conversation_id index. Called once at startup.
func (r *ConversationRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "conversation_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Find returns the conversation for the given identifier, or nil if no
// such document exists. Absence is not an error.
func (r *ConversationRepo) Find(ctx context.Context, conversationID string) (*models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var conv models.Conversation
	err := r.coll.FindOne(ctx, bson.M{"conversation_id": conversationID}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// AppendTurn appends a (user, assistant) message pair to the conversation,
// creating the document if it does not exist and bumping the recency marker.
// The single upsert keeps the append and the marker update atomic.
func (r *ConversationRepo) AppendTurn(ctx context.Context, conversationID string, userMsg, assistantMsg models.Message) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{
		"$setOnInsert": bson.M{"conversation_id": conversationID},
		"$set":         bson.M{"updated_at": time.Now()},
		"$push": bson.M{
			"messages": bson.M{"$each": []models.Message{userMsg, assistantMsg}},
		},
	}

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"conversation_id": conversationID},
		update,
		options.Update().SetUpsert(true),
	)
	return err
}

// ListRecent returns up to limit conversation summaries, most recently
// updated first, each carrying only its last message.
func (r *ConversationRepo) ListRecent(ctx context.Context, limit int64) ([]models.ConversationSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(bson.M{
			"_id":             0,
			"conversation_id": 1,
			"updated_at":      1,
			"messages":        bson.M{"$slice": -1},
		}).
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summaries := []models.ConversationSummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Delete removes the conversation and reports whether it existed.
func (r *ConversationRepo) Delete(ctx context.Context, conversationID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"conversation_id": conversationID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
