package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/gophchat/internal/server/service"
	"github.com/iudanet/gophchat/pkg/api"
)

// AuthHandler обрабатывает регистрацию и вход
type AuthHandler struct {
	responder
	accounts *service.Accounts
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, accounts *service.Accounts) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: logger},
		accounts:  accounts,
	}
}

// Register обрабатывает POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.accounts.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.sendOK(w, api.AuthResponse{User: toAPIUser(res.User), Token: res.Token},
		"user registered successfully", http.StatusCreated)
}

// Login обрабатывает POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.sendOK(w, api.AuthResponse{User: toAPIUser(res.User), Token: res.Token},
		"login successful", http.StatusOK)
}
