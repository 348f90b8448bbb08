package storage

import "context"

// MaxHistoryTurns сколько последних реплик комнаты хранится локально
const MaxHistoryTurns = 20

// Turn одна реплика диалога в формате completion API
type Turn struct {
	Role    string `json:"role"` // "user" или "assistant"
	Content string `json:"content"`
}

// HistoryStorage кэширует последние реплики по комнатам, чтобы отправлять
// их серверу вместе с новым сообщением
type HistoryStorage interface {
	// GetHistory возвращает реплики комнаты от старых к новым; пустой слайс, если их нет
	GetHistory(ctx context.Context, roomID int64) ([]Turn, error)

	// ReplaceHistory заменяет историю комнаты (после загрузки с сервера)
	ReplaceHistory(ctx context.Context, roomID int64, turns []Turn) error

	// AppendHistory добавляет реплики в конец, отбрасывая самые старые сверх MaxHistoryTurns
	AppendHistory(ctx context.Context, roomID int64, turns ...Turn) error

	// DeleteHistory удаляет историю одной комнаты
	DeleteHistory(ctx context.Context, roomID int64) error

	// ClearHistory удаляет историю всех комнат
	ClearHistory(ctx context.Context) error
}
