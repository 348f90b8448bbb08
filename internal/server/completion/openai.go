package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// Фиксированные параметры генерации, пользователь их не настраивает
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-3.5-turbo"
	DefaultTimeout = 30 * time.Second

	temperature      = 0.85
	topP             = 0.9
	frequencyPenalty = 1.0
	presencePenalty  = 0.5
	maxTokens        = 2000

	// сколько байт тела ошибки попадает в лог
	errorBodyLogLimit = 512
)

// Config задает подключение к API
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenAIClient implements Completer over the /chat/completions endpoint
type OpenAIClient struct {
	client  *http.Client
	logger  *slog.Logger
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
}

var _ Completer = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client. Empty fields fall back to defaults.
func NewOpenAIClient(cfg Config, logger *slog.Logger) *OpenAIClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &OpenAIClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   model,
		timeout: timeout,
		// общий таймаут задается через context в Complete
		client: &http.Client{},
		logger: logger.With(slog.String("component", "completion")),
	}
}

type chatRequest struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	Temperature      float64   `json:"temperature"`
	TopP             float64   `json:"top_p"`
	FrequencyPenalty float64   `json:"frequency_penalty"`
	PresencePenalty  float64   `json:"presence_penalty"`
	MaxTokens        int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the first choice's content
func (c *OpenAIClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if c.apiKey == "" {
		c.logger.Error("completion api key is not set")
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:            c.model,
		Messages:         messages,
		Temperature:      temperature,
		TopP:             topP,
		FrequencyPenalty: frequencyPenalty,
		PresencePenalty:  presencePenalty,
		MaxTokens:        maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			c.logger.Error("completion request timed out",
				slog.Duration("elapsed", time.Since(start)))
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		c.logger.Error("completion request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(ctx, err) {
			c.logger.Error("completion response timed out")
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		c.logger.Error("failed to read completion response", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("completion api returned error status",
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncate(respBody, errorBodyLogLimit)))
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.logger.Error("completion response is not valid json", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == nil {
		c.logger.Error("completion response has no content")
		return "", ErrNoContent
	}

	c.logger.Debug("completion received",
		slog.Int("prompt_messages", len(messages)),
		slog.Duration("elapsed", time.Since(start)))

	return *parsed.Choices[0].Message.Content, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
