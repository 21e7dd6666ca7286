package port

import (
	"context"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
)

// IdentityProvider определяет интерфейс получения идентичности инстанса (Port)
// Реализация будет в Infrastructure слое (IMDSv2)
type IdentityProvider interface {
	// FetchIdentity запрашивает идентичность у metadata service.
	// Частично заполненная identity с полями "unknown" и ошибка могут
	// возвращаться одновременно — вызывающий использует то, что удалось получить.
	FetchIdentity(ctx context.Context) (entity.InstanceIdentity, error)
}
