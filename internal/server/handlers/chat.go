package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/gophchat/internal/server/service"
	"github.com/iudanet/gophchat/pkg/api"
)

// ChatHandler обрабатывает отправку сообщений боту
type ChatHandler struct {
	responder
	chat *service.Chat
}

// NewChatHandler создает handler чата
func NewChatHandler(logger *slog.Logger, chat *service.Chat) *ChatHandler {
	return &ChatHandler{
		responder: responder{logger: logger},
		chat:      chat,
	}
}

// Send обрабатывает POST /api/v1/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.sendError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req api.ChatRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.RoomID <= 0 {
		h.sendError(w, "invalid room id", http.StatusBadRequest)
		return
	}

	history := make([]service.HistoryEntry, 0, len(req.History))
	for _, item := range req.History {
		history = append(history, service.HistoryEntry{Role: item.Role, Content: item.Content})
	}

	res, err := h.chat.Send(r.Context(), userID, req.RoomID, req.Message, history)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.sendOK(w, api.ChatResponse{
		Response:      res.Reply,
		UserMessageID: res.UserMessage.ID,
		BotMessageID:  res.BotMessage.ID,
	}, "message processed successfully", http.StatusOK)
}
