package handlers

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/gophchat/internal/models"
	"github.com/iudanet/gophchat/internal/server/service"
	"github.com/iudanet/gophchat/pkg/api"
)

// RoomsHandler обслуживает комнаты и сообщения в них
type RoomsHandler struct {
	responder
	rooms *service.Rooms
}

// NewRoomsHandler создает handler комнат
func NewRoomsHandler(logger *slog.Logger, rooms *service.Rooms) *RoomsHandler {
	return &RoomsHandler{
		responder: responder{logger: logger},
		rooms:     rooms,
	}
}

// List обрабатывает GET /api/v1/rooms?limit=&offset=
func (h *RoomsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.sendError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	rooms, err := h.rooms.List(r.Context(), userID, queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	resp := make([]api.Room, 0, len(rooms))
	for _, room := range rooms {
		resp = append(resp, toAPIRoom(room))
	}
	h.sendOK(w, resp, "", http.StatusOK)
}

// Create обрабатывает POST /api/v1/rooms
func (h *RoomsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.sendError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req api.CreateRoomRequest
	if err := decodeJSON(r, &req, true); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	room, err := h.rooms.Create(r.Context(), userID, req.Name)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	h.sendOK(w, toAPIRoom(room), "room created", http.StatusCreated)
}

// Room обрабатывает /api/v1/rooms/{roomID}: GET, PUT, DELETE
func (h *RoomsHandler) Room(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.sendError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	roomID, ok := pathID(r, "roomID")
	if !ok {
		h.sendError(w, "invalid room id", http.StatusBadRequest)
		return
	}

	switch op := OperationFrom(r); op {
	case models.OpRead:
		h.get(w, r, userID, roomID)
	case models.OpUpdate:
		h.rename(w, r, userID, roomID)
	case models.OpDelete:
		h.delete(w, r, userID, roomID)
	default:
		h.methodNotAllowed(w, op, "GET, PUT, DELETE")
	}
}

func (h *RoomsHandler) get(w http.ResponseWriter, r *http.Request, userID, roomID int64) {
	details, err := h.rooms.Get(r.Context(), userID, roomID, queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}

	resp := api.RoomDetails{
		Room:     toAPIRoom(details.Room),
		Messages: make([]api.Message, 0, len(details.Messages)),
	}
	for _, m := range details.Messages {
		resp.Messages = append(resp.Messages, toAPIMessage(m))
	}
	h.sendOK(w, resp, "", http.StatusOK)
}

func (h *RoomsHandler) rename(w http.ResponseWriter, r *http.Request, userID, roomID int64) {
	var req api.UpdateRoomRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.sendError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	room, err := h.rooms.Rename(r.Context(), userID, roomID, req.Name)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendOK(w, toAPIRoom(room), "room updated", http.StatusOK)
}

func (h *RoomsHandler) delete(w http.ResponseWriter, r *http.Request, userID, roomID int64) {
	if err := h.rooms.Delete(r.Context(), userID, roomID); err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendOK(w, nil, "room deleted", http.StatusOK)
}

// Message обрабатывает /api/v1/rooms/{roomID}/messages/{messageID}: только DELETE
func (h *RoomsHandler) Message(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		h.sendError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if op := OperationFrom(r); op != models.OpDelete {
		h.methodNotAllowed(w, op, "DELETE")
		return
	}

	roomID, ok := pathID(r, "roomID")
	if !ok {
		h.sendError(w, "invalid room id", http.StatusBadRequest)
		return
	}
	messageID, ok := pathID(r, "messageID")
	if !ok {
		h.sendError(w, "invalid message id", http.StatusBadRequest)
		return
	}

	if err := h.rooms.DeleteMessage(r.Context(), userID, roomID, messageID); err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendOK(w, nil, "message deleted", http.StatusOK)
}
