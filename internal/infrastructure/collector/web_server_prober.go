package collector

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
)

const defaultProbeTimeout = 2 * time.Second

// ProcessProber проверяет наблюдаемый web-сервер двумя независимыми
// способами: наличие процесса в таблице процессов и ответ liveness probe.
// Реализует интерфейс port.WebServerProber
type ProcessProber struct {
	processName string
	livenessURL string
	client      *http.Client
}

// NewProcessProber создает новый prober.
// processName — имя процесса web-сервера (например "nginx"),
// livenessURL — локальный URL для проверки ответа.
func NewProcessProber(processName, livenessURL string, timeout time.Duration) *ProcessProber {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &ProcessProber{
		processName: processName,
		livenessURL: livenessURL,
		client:      &http.Client{Timeout: timeout},
	}
}

// Probe возвращает состояние web-сервера. Результат никогда не nil:
// отказ сканирования процессов дает Status "unknown", а liveness
// проверяется в любом случае.
func (p *ProcessProber) Probe(ctx context.Context) (*entity.WebServerStatus, error) {
	status := &entity.WebServerStatus{Status: "unknown"}

	proc, scanErr := p.findProcess(ctx)
	if scanErr == nil {
		if proc == nil {
			status.Status = "inactive"
		} else {
			status.Status = "active"
			if createdMs, err := proc.CreateTimeWithContext(ctx); err == nil {
				uptime := int64(time.Since(time.UnixMilli(createdMs)).Seconds())
				if uptime < 0 {
					uptime = 0
				}
				status.UptimeSeconds = &uptime
			}
		}
	}

	p.probeLiveness(ctx, status)

	return status, scanErr
}

// findProcess ищет процесс web-сервера в таблице процессов
func (p *ProcessProber) findProcess(ctx context.Context) (*process.Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if strings.EqualFold(name, p.processName) {
			return proc, nil
		}
	}
	return nil, nil
}

// probeLiveness выполняет HTTP проверку и заполняет Responding и Version
func (p *ProcessProber) probeLiveness(ctx context.Context, status *entity.WebServerStatus) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.livenessURL, nil)
	if err != nil {
		return
	}

	resp, err := p.client.Do(req)
	if err != nil {
		status.Responding = false
		return
	}
	defer resp.Body.Close()

	status.Responding = resp.StatusCode < 500
	if server := resp.Header.Get("Server"); server != "" {
		status.Version = server
	}
}
