package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"

	"servicepro/internal/httpx"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.repo.ListServices(r.Context())
	if err != nil {
		writeErr(w, err, "Failed to fetch services")
		return
	}
	httpx.OK(w, services)
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var s Service
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}

	id, err := h.repo.InsertService(r.Context(), &s)
	if err != nil {
		writeErr(w, err, "Failed to add service")
		return
	}
	httpx.Created(w, map[string]string{"insertedId": id})
}

func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.GetService(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err, "Failed to fetch service")
		return
	}
	httpx.OK(w, s)
}

func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var set bson.M
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}
	delete(set, "_id")

	if err := h.repo.UpdateService(r.Context(), chi.URLParam(r, "id"), set); err != nil {
		writeErr(w, err, "Failed to update service")
		return
	}
	httpx.OK(w, map[string]string{"message": "Service updated"})
}

func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteService(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err, "Failed to delete service")
		return
	}
	httpx.OK(w, map[string]string{"message": "Service deleted"})
}

func (h *Handler) ListWork(w http.ResponseWriter, r *http.Request) {
	work, err := h.repo.ListWork(r.Context())
	if err != nil {
		writeErr(w, err, "Failed to fetch projects")
		return
	}
	httpx.OK(w, work)
}

func (h *Handler) CreateWork(w http.ResponseWriter, r *http.Request) {
	var item Work
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}

	id, err := h.repo.InsertWork(r.Context(), &item)
	if err != nil {
		writeErr(w, err, "Failed to add project")
		return
	}
	httpx.Created(w, map[string]string{"insertedId": id})
}

func (h *Handler) UpdateWork(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}

	if err := h.repo.UpdateWork(r.Context(), chi.URLParam(r, "id"), req.Title, req.Description); err != nil {
		writeErr(w, err, "Failed to update project")
		return
	}
	httpx.OK(w, map[string]string{"message": "Project updated"})
}

func (h *Handler) DeleteWork(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteWork(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err, "Failed to delete project")
		return
	}
	httpx.OK(w, map[string]string{"message": "Project deleted"})
}

func (h *Handler) ListStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.repo.ListStatus(r.Context())
	if err != nil {
		writeErr(w, err, "Failed to fetch status")
		return
	}
	httpx.OK(w, status)
}

func (h *Handler) IncrementStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.IncrementCount(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err, "Failed to increment count")
		return
	}
	httpx.OK(w, map[string]string{"message": "Count incremented successfully"})
}

func (h *Handler) DecrementStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DecrementCount(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err, "Failed to decrement count")
		return
	}
	httpx.OK(w, map[string]string{"message": "Count decremented successfully"})
}

func (h *Handler) ListFAQ(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.repo.ListFAQ(r.Context())
	if err != nil {
		writeErr(w, err, "Failed to fetch FAQs")
		return
	}
	httpx.OK(w, faqs)
}

func (h *Handler) CreateFAQ(w http.ResponseWriter, r *http.Request) {
	var f FAQ
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}

	id, err := h.repo.InsertFAQ(r.Context(), &f)
	if err != nil {
		writeErr(w, err, "Failed to add FAQ")
		return
	}
	httpx.Created(w, map[string]string{"insertedId": id})
}

func (h *Handler) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteFAQ(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err, "Failed to delete FAQ")
		return
	}
	httpx.OK(w, map[string]string{"message": "FAQ deleted"})
}

func writeErr(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidID):
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid ID format")
	case errors.Is(err, ErrAtZero):
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, "Count cannot be negative")
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, httpx.CodeNotFound, "Item not found")
	default:
		httpx.Error(w, http.StatusInternalServerError, httpx.CodeInternal, fallback)
	}
}
