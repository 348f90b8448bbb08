package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/gophchat/internal/models"
	"github.com/iudanet/gophchat/internal/server/service"
	"github.com/iudanet/gophchat/pkg/api"
)

// maxBodySize ограничение размера тела запроса
const maxBodySize = 1 << 20

// responder общие методы ответа для всех handlers
type responder struct {
	logger *slog.Logger
}

// sendJSON отправляет JSON ответ
func (h responder) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendOK отправляет успешный ответ в конверте
func (h responder) sendOK(w http.ResponseWriter, data any, message string, statusCode int) {
	h.sendJSON(w, api.Response[any]{Success: true, Message: message, Data: data}, statusCode)
}

// sendError отправляет JSON ответ с ошибкой
func (h responder) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, api.ErrorResponse{Success: false, Message: message}, statusCode)
}

// sendServiceError переводит ошибку сервиса в HTTP статус
func (h responder) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusForKind(service.KindOf(err))
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	h.sendError(w, service.PublicMessage(err), status)
}

// StatusForKind maps a service error kind to an HTTP status
func StatusForKind(kind service.Kind) int {
	switch kind {
	case service.KindAuthentication:
		return http.StatusUnauthorized
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON читает тело запроса; пустое тело допустимо, если allowEmpty
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// pathID разбирает положительный целочисленный параметр пути
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryInt читает необязательный числовой query параметр
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}

// methodNotAllowed отвечает 405 для операции, которую ресурс не поддерживает
func (h responder) methodNotAllowed(w http.ResponseWriter, op models.Operation, allowed string) {
	w.Header().Set("Allow", allowed)
	h.sendError(w, "method not allowed: "+op.String(), http.StatusMethodNotAllowed)
}

func toAPIUser(u *models.User) api.User {
	return api.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toAPIRoom(r *models.Room) api.Room {
	return api.Room{
		ID:        r.ID,
		UserID:    r.OwnerID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toAPIMessage(m *models.Message) api.Message {
	return api.Message{
		ID:        m.ID,
		RoomID:    m.RoomID,
		Text:      m.Text,
		Sender:    string(m.Sender),
		CreatedAt: m.CreatedAt,
	}
}
