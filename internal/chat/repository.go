package chat

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository struct {
	messages *mongo.Collection
}

func NewRepository(messages *mongo.Collection) *Repository {
	return &Repository{messages: messages}
}

// Save inserts a message, stamping the timestamp if the relay has not already.
// The stored timestamp is always server-assigned.
func (r *Repository) Save(ctx context.Context, msg *Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	_, err := r.messages.InsertOne(ctx, msg)
	return err
}

// ListForRoom returns a room's full history, oldest first.
func (r *Repository) ListForRoom(ctx context.Context, roomID string) ([]Message, error) {
	cursor, err := r.messages.Find(ctx,
		bson.M{"roomId": roomID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// LatestPerSender returns, for each distinct sender with the given role, only
// their most recent message. Used to build the provider inbox.
func (r *Repository) LatestPerSender(ctx context.Context, role string) ([]Message, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "role", Value: role}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "timestamp", Value: -1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$senderId"},
			{Key: "latestMessage", Value: bson.D{{Key: "$first", Value: "$$ROOT"}}},
		}}},
		bson.D{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$latestMessage"}}}},
	}

	cursor, err := r.messages.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
