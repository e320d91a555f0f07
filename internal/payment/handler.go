package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"

	"servicepro/internal/httpx"
)

type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler wires the payments handler. The Stripe SDK keys itself off the
// package-level secret, set once here.
func NewHandler(repo *Repository, stripeSecretKey string, log zerolog.Logger) *Handler {
	stripe.Key = stripeSecretKey
	return &Handler{repo: repo, log: log}
}

func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}
	if req.Price <= 0 {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, "price must be positive")
		return
	}

	pi, err := paymentintent.New(&stripe.PaymentIntentParams{
		Amount:             stripe.Int64(int64(req.Price * 100)), // cents
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	})
	if err != nil {
		h.log.Error().Err(err).Str("service_id", req.ServiceID).Msg("stripe payment intent failed")
		httpx.Error(w, http.StatusInternalServerError, httpx.CodeInternal, "Failed to create payment intent")
		return
	}

	httpx.OK(w, IntentResponse{ClientSecret: pi.ClientSecret})
}

func (h *Handler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	var req SuccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}

	if req.Status != "succeeded" {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, "Payment not successful")
		return
	}

	rec := &Record{
		UserID:           req.UserID,
		UserName:         req.UserName,
		UserProfileImage: req.UserProfileImage,
		ServiceID:        req.ServiceID,
		ServiceName:      req.ServiceName,
		Amount:           req.Amount,
		TransactionID:    req.TransactionID,
		Status:           req.Status,
		Date:             time.Now().UTC(),
		Method:           "stripe",
		OrderStatus:      req.OrderStatus,
	}

	id, err := h.repo.Insert(r.Context(), rec)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, httpx.CodeInternal, "Failed to record payment")
		return
	}

	httpx.OK(w, map[string]string{"message": "Payment recorded", "insertedId": id})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.List(r.Context())
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, httpx.CodeInternal, "Failed to fetch payment history")
		return
	}
	httpx.OK(w, records)
}

func (h *Handler) HistoryForUser(w http.ResponseWriter, r *http.Request) {
	records, err := h.repo.ListForUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, httpx.CodeInternal, "Failed to fetch payment history")
		return
	}
	httpx.OK(w, records)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewStatus string `json:"newStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}
	if req.NewStatus == "" {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, "newStatus is required")
		return
	}

	if err := h.repo.SetOrderStatus(r.Context(), chi.URLParam(r, "id"), req.NewStatus); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, httpx.CodeNotFound, "Order not found")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, httpx.CodeInternal, "Failed to update order status")
		return
	}

	httpx.OK(w, map[string]string{"message": "Order status updated successfully"})
}
