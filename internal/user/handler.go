package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"servicepro/internal/httpx"
	"servicepro/internal/middleware"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, "Username and password are required")
		return
	}

	if err := h.Service.Register(r.Context(), &req); err != nil {
		writeErr(w, err)
		return
	}

	httpx.Created(w, map[string]string{"message": "Verification email sent"})
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	verificationToken := r.URL.Query().Get("token")
	if email == "" || verificationToken == "" {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, "token and email are required")
		return
	}

	if err := h.Service.VerifyEmail(r.Context(), email, verificationToken); err != nil {
		writeErr(w, err)
		return
	}

	httpx.OK(w, map[string]string{"message": "Email verified successfully!"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}

	tokenString, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		writeErr(w, err)
		return
	}

	httpx.OK(w, LoginResponse{Token: tokenString})
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}

	if err := h.Service.ForgotPassword(r.Context(), req.Email); err != nil {
		writeErr(w, err)
		return
	}

	httpx.OK(w, map[string]string{"message": "Password reset link sent to email"})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}

	if err := h.Service.ResetPassword(r.Context(), req.Email, req.Token, req.NewPassword); err != nil {
		writeErr(w, err)
		return
	}

	httpx.OK(w, map[string]string{"message": "Password reset successfully"})
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"userId"`
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}

	if err := h.Service.ChangePassword(r.Context(), req.UserID, req.OldPassword, req.NewPassword); err != nil {
		writeErr(w, err)
		return
	}

	httpx.OK(w, map[string]string{"message": "Password changed"})
}

// Me returns the identity projection for the bearer token's subject.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.FromContext(r.Context())
	if claims == nil {
		httpx.Error(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "No token provided")
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}

	httpx.OK(w, profile)
}

func (h *Handler) ClientData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), req.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	profile.ModeratorRole = ""

	httpx.OK(w, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"userId"`
		Name     string `json:"name"`
		Username string `json:"username"`
		Number   string `json:"number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}

	if err := h.Service.UpdateProfile(r.Context(), req.UserID, req.Name, req.Username, req.Number); err != nil {
		writeErr(w, err)
		return
	}

	httpx.OK(w, map[string]string{"message": "Profile updated"})
}

func (h *Handler) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID       string `json:"userId"`
		ProfileImage string `json:"profileImage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}
	if req.UserID == "" || req.ProfileImage == "" {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, "Missing userId or profileImage")
		return
	}

	if err := h.Service.UpdateProfileImage(r.Context(), req.UserID, req.ProfileImage); err != nil {
		writeErr(w, err)
		return
	}

	httpx.OK(w, map[string]string{"message": "Profile image updated"})
}

func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.ListUsersForAdmin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	httpx.OK(w, users)
}

func (h *Handler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	h.setRole(w, r, "admin", "User promoted to admin")
}

func (h *Handler) MakeUser(w http.ResponseWriter, r *http.Request) {
	h.setRole(w, r, "user", "User demoted to user")
}

func (h *Handler) setRole(w http.ResponseWriter, r *http.Request, role, message string) {
	if err := h.Service.SetRole(r.Context(), chi.URLParam(r, "id"), role); err != nil {
		writeErr(w, err)
		return
	}
	httpx.OK(w, map[string]string{"message": message})
}

func (h *Handler) MakeModerator(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoleType string `json:"roleType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, err.Error())
		return
	}
	if req.RoleType == "" {
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, "Role is required")
		return
	}

	if err := h.Service.MakeModerator(r.Context(), chi.URLParam(r, "id"), req.RoleType); err != nil {
		writeErr(w, err)
		return
	}

	httpx.OK(w, map[string]string{"message": "User updated to " + req.RoleType})
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Error(w, http.StatusNotFound, httpx.CodeNotFound, "User not found")
	case errors.Is(err, ErrConflict):
		httpx.Error(w, http.StatusConflict, httpx.CodeConflict, "User already exists")
	case errors.Is(err, ErrUnverified):
		httpx.Error(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "You need to verify your account !")
	case errors.Is(err, ErrBadCredentials):
		httpx.Error(w, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrBadToken):
		httpx.Error(w, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid or expired token")
	case errors.Is(err, ErrForbidden):
		httpx.Error(w, http.StatusForbidden, httpx.CodeForbidden, "Access denied. Admins only.")
	default:
		httpx.Error(w, http.StatusInternalServerError, httpx.CodeInternal, "Internal server error")
	}
}
