package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iudanet/gophchat/pkg/api"
)

// Error ответ сервера с кодом не 2xx
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsUnauthorized сообщает, что сервер отклонил токен
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// ответ бота может идти до таймаута completion API на сервере
			Timeout: 60 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetToken задает bearer токен для защищенных запросов
func (c *Client) SetToken(token string) {
	c.token = token
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Profile возвращает текущего пользователя
func (c *Client) Profile(ctx context.Context) (*api.User, error) {
	var resp api.User
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/user", nil, &resp); err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &resp, nil
}

// DeleteAccount удаляет аккаунт; пароль перепроверяется сервером.
// Отправляется как POST с _method, как это делают веб-клиенты.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	req := api.DeleteAccountRequest{Password: password, Method: http.MethodDelete}
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/user", req, nil); err != nil {
		return fmt.Errorf("delete account request failed: %w", err)
	}
	return nil
}

// ListRooms возвращает комнаты пользователя, новые сверху
func (c *Client) ListRooms(ctx context.Context, limit, offset int) ([]api.Room, error) {
	var resp []api.Room
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/rooms"+pageQuery(limit, offset), nil, &resp); err != nil {
		return nil, fmt.Errorf("list rooms request failed: %w", err)
	}
	return resp, nil
}

// CreateRoom создает комнату; пустое имя заменяется сервером
func (c *Client) CreateRoom(ctx context.Context, name string) (*api.Room, error) {
	var resp api.Room
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/rooms", api.CreateRoomRequest{Name: name}, &resp); err != nil {
		return nil, fmt.Errorf("create room request failed: %w", err)
	}
	return &resp, nil
}

// GetRoom возвращает комнату и ее сообщения
func (c *Client) GetRoom(ctx context.Context, roomID int64, limit, offset int) (*api.RoomDetails, error) {
	var resp api.RoomDetails
	path := roomPath(roomID) + pageQuery(limit, offset)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get room request failed: %w", err)
	}
	return &resp, nil
}

// RenameRoom переименовывает комнату
func (c *Client) RenameRoom(ctx context.Context, roomID int64, name string) (*api.Room, error) {
	var resp api.Room
	req := api.UpdateRoomRequest{Name: name, Method: http.MethodPut}
	if err := c.doRequest(ctx, http.MethodPost, roomPath(roomID), req, &resp); err != nil {
		return nil, fmt.Errorf("rename room request failed: %w", err)
	}
	return &resp, nil
}

// DeleteRoom скрывает комнату
func (c *Client) DeleteRoom(ctx context.Context, roomID int64) error {
	req := api.MethodOverride{Method: http.MethodDelete}
	if err := c.doRequest(ctx, http.MethodPost, roomPath(roomID), req, nil); err != nil {
		return fmt.Errorf("delete room request failed: %w", err)
	}
	return nil
}

// DeleteMessage скрывает сообщение в комнате
func (c *Client) DeleteMessage(ctx context.Context, roomID, messageID int64) error {
	path := roomPath(roomID) + "/messages/" + strconv.FormatInt(messageID, 10)
	req := api.MethodOverride{Method: http.MethodDelete}
	if err := c.doRequest(ctx, http.MethodPost, path, req, nil); err != nil {
		return fmt.Errorf("delete message request failed: %w", err)
	}
	return nil
}

// Send отправляет сообщение боту вместе с предыдущими репликами
func (c *Client) Send(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error) {
	var resp api.ChatResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/chat", req, &resp); err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	return &resp, nil
}

func roomPath(roomID int64) string {
	return "/api/v1/rooms/" + strconv.FormatInt(roomID, 10)
}

func pageQuery(limit, offset int) string {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// doRequest выполняет HTTP запрос и раскрывает конверт ответа в result
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return &Error{StatusCode: resp.StatusCode, Message: errResp.Message}
		}
		return &Error{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if result != nil {
		envelope := api.Response[json.RawMessage]{}
		if err := json.Unmarshal(respBody, &envelope); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		if len(envelope.Data) == 0 {
			return errors.New("response has no data")
		}
		if err := json.Unmarshal(envelope.Data, result); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}
