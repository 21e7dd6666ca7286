package port

import "context"

// Cache определяет интерфейс кеширования (Port)
// Реализация будет в Infrastructure слое (Redis)
type Cache interface {
	// Get получает значение по ключу и десериализует в dest.
	// Возвращает ошибку при промахе
	Get(ctx context.Context, key string, dest interface{}) error

	// Set сохраняет значение. TTL определяется реализацией
	Set(ctx context.Context, key string, value interface{}) error

	// Delete удаляет значение по ключу
	Delete(ctx context.Context, key string) error

	// Close закрывает соединение
	Close() error
}
