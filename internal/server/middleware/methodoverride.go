package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/iudanet/gophchat/internal/models"
	"github.com/iudanet/gophchat/internal/server/handlers"
	"github.com/iudanet/gophchat/pkg/api"
)

// maxOverrideBody ограничение тела, которое читается для поиска _method
const maxOverrideBody = 1 << 20

// MethodOverride разрешает поле _method в JSON теле POST запроса.
// Операция определяется один раз и кладется в контекст, а r.Method
// подменяется, чтобы маршрутизатор выбрал нужный обработчик.
// Тело восстанавливается для handler'а.
func MethodOverride(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxOverrideBody))
			_ = r.Body.Close()
			if err != nil {
				writeJSONError(w, "could not read request body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			var override api.MethodOverride
			// Невалидный JSON здесь не ошибка: его отклонит handler
			if json.Unmarshal(body, &override) != nil || override.Method == "" {
				next.ServeHTTP(w, r)
				return
			}

			op := models.ParseOperation(override.Method)
			if op == models.OpUnknown {
				logger.Warn("Unknown method override", "method", override.Method, "path", r.URL.Path)
				writeJSONError(w, "unsupported _method: "+override.Method, http.StatusMethodNotAllowed)
				return
			}

			r = r.WithContext(handlers.WithOperation(r.Context(), op))
			r.Method = op.Method()
			next.ServeHTTP(w, r)
		})
	}
}
