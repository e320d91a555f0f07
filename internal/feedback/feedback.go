package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"servicepro/internal/httpx"
)

var ErrNotFound = errors.New("feedback not found")

type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Message   string             `bson:"message" json:"message"`
	Rating    int                `bson:"rating,omitempty" json:"rating,omitempty"`
	Status    string             `bson:"status,omitempty" json:"status,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

type Repository struct {
	feedback *mongo.Collection
}

func NewRepository(feedback *mongo.Collection) *Repository {
	return &Repository{feedback: feedback}
}

func (r *Repository) Insert(ctx context.Context, f *Feedback) (string, error) {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	res, err := r.feedback.InsertOne(ctx, f)
	if err != nil {
		return "", err
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (r *Repository) List(ctx context.Context) ([]Feedback, error) {
	cursor, err := r.feedback.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []Feedback{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) SetStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.feedback.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var f Feedback
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}

	id, err := h.repo.Insert(r.Context(), &f)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, httpx.CodeInternal, "Failed to add feedback")
		return
	}
	httpx.Created(w, map[string]string{"insertedId": id})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, httpx.CodeInternal, "Failed to fetch feedback")
		return
	}
	httpx.OK(w, items)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}
	if req.Status == "" {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, "Status is required")
		return
	}

	if err := h.repo.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, httpx.CodeNotFound, "Feedback not found")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, httpx.CodeInternal, "Failed to update status")
		return
	}
	httpx.OK(w, map[string]string{"message": "Feedback status updated"})
}
