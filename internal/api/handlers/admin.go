package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/horizon-summaries/backend/internal/api/middleware"
	"github.com/horizon-summaries/backend/internal/db"
)

type AdminHandler struct {
	db *db.Database
}

func NewAdminHandler(db *db.Database) *AdminHandler {
	return &AdminHandler{db: db}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.db.ListUsers()
	if err != nil {
		jsonError(w, "failed to list users", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, users, http.StatusOK)
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || len(req.Password) < 8 {
		jsonError(w, "username required and password must be at least 8 characters", http.StatusBadRequest)
		return
	}
	if req.Role != "admin" && req.Role != "viewer" {
		req.Role = "viewer"
	}

	id, err := h.db.CreateUser(req.Username, req.Password, req.Role)
	if err != nil {
		jsonError(w, "failed to create user: "+err.Error(), http.StatusConflict)
		return
	}

	jsonResponse(w, map[string]interface{}{
		"id":       id,
		"username": req.Username,
		"role":     req.Role,
	}, http.StatusCreated)
}

type updateUserRequest struct {
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Password != "" {
		if len(req.Password) < 8 {
			jsonError(w, "password must be at least 8 characters", http.StatusBadRequest)
			return
		}
		if err := h.db.UpdateUserPassword(id, req.Password); err != nil {
			jsonError(w, "failed to update password", http.StatusInternalServerError)
			return
		}
	}

	if req.Role != "" {
		if req.Role != "admin" && req.Role != "viewer" {
			jsonError(w, "invalid role", http.StatusBadRequest)
			return
		}
		if err := h.db.UpdateUserRole(id, req.Role); err != nil {
			jsonError(w, "failed to update role", http.StatusInternalServerError)
			return
		}
	}

	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, "invalid user ID", http.StatusBadRequest)
		return
	}

	// Refuse self-deletion so the last admin cannot lock everyone out
	claims := middleware.GetClaims(r)
	if claims != nil && claims.UserID == id {
		jsonError(w, "cannot delete your own account", http.StatusBadRequest)
		return
	}

	if err := h.db.DeleteUser(id); err != nil {
		jsonError(w, "failed to delete user", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{"status": "ok"}, http.StatusOK)
}
