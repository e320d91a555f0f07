package payment

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("order not found")

type Repository struct {
	payments *mongo.Collection
}

func NewRepository(payments *mongo.Collection) *Repository {
	return &Repository{payments: payments}
}

func (r *Repository) Insert(ctx context.Context, rec *Record) (string, error) {
	res, err := r.payments.InsertOne(ctx, rec)
	if err != nil {
		return "", err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (r *Repository) List(ctx context.Context) ([]Record, error) {
	return r.list(ctx, bson.M{})
}

func (r *Repository) ListForUser(ctx context.Context, userID string) ([]Record, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *Repository) list(ctx context.Context, filter bson.M) ([]Record, error) {
	cursor, err := r.payments.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []Record{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) SetOrderStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.payments.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"orderStatus": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
