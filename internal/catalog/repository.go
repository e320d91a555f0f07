package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound  = errors.New("item not found")
	ErrInvalidID = errors.New("invalid id format")
	ErrAtZero    = errors.New("count cannot be negative")
)

type Repository struct {
	services   *mongo.Collection
	latestWork *mongo.Collection
	status     *mongo.Collection
	faq        *mongo.Collection
}

func NewRepository(services, latestWork, status, faq *mongo.Collection) *Repository {
	return &Repository{
		services:   services,
		latestWork: latestWork,
		status:     status,
		faq:        faq,
	}
}

func (r *Repository) ListServices(ctx context.Context) ([]Service, error) {
	return listAll[Service](ctx, r.services)
}

func (r *Repository) InsertService(ctx context.Context, s *Service) (string, error) {
	return insertOne(ctx, r.services, s)
}

func (r *Repository) GetService(ctx context.Context, id string) (*Service, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	s := &Service{}
	err = r.services.FindOne(ctx, bson.M{"_id": oid}).Decode(s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repository) UpdateService(ctx context.Context, id string, set bson.M) error {
	return updateByID(ctx, r.services, id, set)
}

func (r *Repository) DeleteService(ctx context.Context, id string) error {
	return deleteByID(ctx, r.services, id)
}

func (r *Repository) ListWork(ctx context.Context) ([]Work, error) {
	return listAll[Work](ctx, r.latestWork)
}

func (r *Repository) InsertWork(ctx context.Context, w *Work) (string, error) {
	return insertOne(ctx, r.latestWork, w)
}

func (r *Repository) UpdateWork(ctx context.Context, id, title, description string) error {
	return updateByID(ctx, r.latestWork, id, bson.M{"title": title, "description": description})
}

func (r *Repository) DeleteWork(ctx context.Context, id string) error {
	return deleteByID(ctx, r.latestWork, id)
}

func (r *Repository) ListStatus(ctx context.Context) ([]StatusItem, error) {
	return listAll[StatusItem](ctx, r.status)
}

// IncrementCount bumps a counter by one in a single atomic update. The
// original read-modify-write round trip lost updates under concurrency.
func (r *Repository) IncrementCount(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.status.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"count": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementCount decrements atomically, guarded so a counter at zero is left
// untouched and the caller is told which case it hit.
func (r *Repository) DecrementCount(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res := r.status.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "count": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"count": -1}},
	)
	if err := res.Err(); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}
		// Either the document is missing or the count is already zero.
		ferr := r.status.FindOne(ctx, bson.M{"_id": oid}).Err()
		if errors.Is(ferr, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		if ferr != nil {
			return ferr
		}
		return ErrAtZero
	}
	return nil
}

func (r *Repository) ListFAQ(ctx context.Context) ([]FAQ, error) {
	return listAll[FAQ](ctx, r.faq)
}

func (r *Repository) InsertFAQ(ctx context.Context, f *FAQ) (string, error) {
	return insertOne(ctx, r.faq, f)
}

func (r *Repository) DeleteFAQ(ctx context.Context, id string) error {
	return deleteByID(ctx, r.faq, id)
}

func listAll[T any](ctx context.Context, coll *mongo.Collection) ([]T, error) {
	cursor, err := coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc interface{}) (string, error) {
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func updateByID(ctx context.Context, coll *mongo.Collection, id string, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
