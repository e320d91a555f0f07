package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Collections holds one handle per collection, built once at startup and
// passed into each repository at construction time.
type Collections struct {
	Services   *mongo.Collection
	LatestWork *mongo.Collection
	Status     *mongo.Collection
	FAQ        *mongo.Collection
	Users      *mongo.Collection
	Payments   *mongo.Collection
	Feedback   *mongo.Collection
	Messages   *mongo.Collection
	Blogs      *mongo.Collection
}

func NewDatabase(uri, dbName string) (*Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return &Database{Client: client, DB: client.Database(dbName)}, nil
}

func (d *Database) Collections() *Collections {
	return &Collections{
		Services:   d.DB.Collection("servieses"),
		LatestWork: d.DB.Collection("latestWork"),
		Status:     d.DB.Collection("status"),
		FAQ:        d.DB.Collection("faq"),
		Users:      d.DB.Collection("users"),
		Payments:   d.DB.Collection("payments"),
		Feedback:   d.DB.Collection("feedback"),
		Messages:   d.DB.Collection("messages"),
		Blogs:      d.DB.Collection("blogs"),
	}
}

// EnsureIndexes creates the indexes the handlers rely on: unique usernames
// and the (roomId, timestamp) key message history is sorted on.
func (d *Database) EnsureIndexes(ctx context.Context) error {
	users := d.DB.Collection("users")
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	messages := d.DB.Collection("messages")
	_, err = messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "roomId", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	return err
}

func (d *Database) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}
