package handler

import (
	"net/http"
	"time"

	"github.com/bachecalabs/bacheca/internal/ctxkeys"
	"github.com/bachecalabs/bacheca/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.issueSession(w, user.ID)
	respondJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.issueSession(w, user.ID)
	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	respondJSON(w, http.StatusOK, user)
}

type updateNameRequest struct {
	Name string `json:"name"`
}

func (h *AuthHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req updateNameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.userService.UpdateName(user.ID, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req updatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.userService.UpdatePassword(user.ID, req.CurrentPassword, req.NewPassword)
	if err == service.ErrInvalidCurrentPassword {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.userService.DeleteAccount(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, userID string) {
	user, err := h.userService.ByID(userID)
	if err != nil {
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		return
	}

	h.authService.SetJWTCookie(w, token, time.Now().Add(h.authService.JWTExpiry()))
}
