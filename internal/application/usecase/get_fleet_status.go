package usecase

import (
	"context"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/dto"
	"github.com/dreschagin/fleet-status/internal/application/viewstate"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

// GetFleetStatusUseCase отдает текущее состояние флота из хранилища.
// Чтение никогда не триггерит опрос: состояние обновляется только
// циклом PollFleetUseCase или ручным refresh'ем.
type GetFleetStatusUseCase struct {
	store  *viewstate.Store
	poller *PollFleetUseCase
	logger *logger.Logger
}

// NewGetFleetStatusUseCase создает новый use case
func NewGetFleetStatusUseCase(store *viewstate.Store, poller *PollFleetUseCase, logger *logger.Logger) *GetFleetStatusUseCase {
	return &GetFleetStatusUseCase{
		store:  store,
		poller: poller,
		logger: logger,
	}
}

// Execute возвращает последнее состояние флота.
// До первого цикла опроса возвращается пустое состояние, не nil.
func (uc *GetFleetStatusUseCase) Execute(ctx context.Context) *dto.FleetViewDTO {
	view := uc.store.Current()
	if view == nil {
		return dto.NewFleetViewDTO(nil, uc.store.RefreshCount(), time.Time{})
	}
	return view
}

// Refresh выполняет ручное обновление: увеличивает счетчик и
// запускает немедленный цикл опроса. Таймер автоопроса не сбрасывается.
func (uc *GetFleetStatusUseCase) Refresh(ctx context.Context) (*dto.FleetViewDTO, error) {
	count := uc.store.IncrementRefresh()
	uc.logger.Info("Manual fleet refresh requested", "refresh_count", count)
	return uc.poller.Execute(ctx)
}
