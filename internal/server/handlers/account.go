package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/gophchat/internal/models"
	"github.com/iudanet/gophchat/internal/server/service"
	"github.com/iudanet/gophchat/pkg/api"
)

// AccountHandler обслуживает профиль текущего пользователя
type AccountHandler struct {
	responder
	accounts *service.Accounts
}

// NewAccountHandler создает handler профиля
func NewAccountHandler(logger *slog.Logger, accounts *service.Accounts) *AccountHandler {
	return &AccountHandler{
		responder: responder{logger: logger},
		accounts:  accounts,
	}
}

// User обрабатывает /api/v1/user: GET профиль, PUT имя, DELETE аккаунт
func (h *AccountHandler) User(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.sendError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	switch op := OperationFrom(r); op {
	case models.OpRead:
		h.profile(w, r, userID)
	case models.OpUpdate:
		h.update(w, r, userID)
	case models.OpDelete:
		h.delete(w, r, userID)
	default:
		h.methodNotAllowed(w, op, "GET, PUT, DELETE")
	}
}

func (h *AccountHandler) profile(w http.ResponseWriter, r *http.Request, userID int64) {
	user, err := h.accounts.Profile(r.Context(), userID)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendOK(w, toAPIUser(user), "", http.StatusOK)
}

func (h *AccountHandler) update(w http.ResponseWriter, r *http.Request, userID int64) {
	var req api.UpdateUserRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.accounts.UpdateName(r.Context(), userID, req.Name)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendOK(w, toAPIUser(user), "profile updated", http.StatusOK)
}

func (h *AccountHandler) delete(w http.ResponseWriter, r *http.Request, userID int64) {
	var req api.DeleteAccountRequest
	if err := decodeJSON(r, &req, true); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.accounts.Delete(r.Context(), userID, req.Password); err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "account deleted", slog.Int64("user_id", userID))
	h.sendOK(w, nil, "account deleted", http.StatusOK)
}
