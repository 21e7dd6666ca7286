package port

import (
	"context"
	"errors"
	"time"
)

// ErrSyncMarkerUnavailable возвращается, когда marker файл отсутствует
// или его содержимое не парсится. Это не фатальная ошибка: статус
// синхронизации деградирует до "unknown".
var ErrSyncMarkerUnavailable = errors.New("sync marker unavailable")

// SyncMarkerReader читает отметку времени последней успешной синхронизации (Port)
type SyncMarkerReader interface {
	// LastSync возвращает время из marker файла.
	// Отсутствующий или нечитаемый marker дает ErrSyncMarkerUnavailable.
	LastSync(ctx context.Context) (time.Time, error)
}

// SyncMarkerWriter записывает отметку времени успешной синхронизации (Port)
type SyncMarkerWriter interface {
	// WriteMarker атомарно перезаписывает marker файл отметкой времени RFC3339
	WriteMarker(ctx context.Context, t time.Time) error
}
