package port

import (
	"context"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
)

// SystemCollector определяет интерфейс сбора системных метрик узла (Port)
// Реализация будет в Infrastructure слое
type SystemCollector interface {
	// Collect собирает load average, память, диск и uptime.
	// Отказ отдельного источника деградирует соответствующее поле,
	// частичный результат возвращается вместе с ошибкой.
	Collect(ctx context.Context) (entity.SystemMetrics, error)
}

// WebServerProber определяет интерфейс проверки наблюдаемого web-сервера (Port)
type WebServerProber interface {
	// Probe возвращает состояние процесса и ответ liveness probe.
	// Результат никогда не nil; ошибка носит информационный характер.
	Probe(ctx context.Context) (*entity.WebServerStatus, error)
}
