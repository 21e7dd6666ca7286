// Package nodeclient опрашивает health reporter'ы узлов по HTTP.
// Каждый узел опрашивается с цепочкой деградации: детальный JSON
// endpoint, затем упрощенный текстовый, затем синтетический
// ошибочный snapshot. Узел всегда получает отображаемое состояние.
package nodeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/dto"
	"github.com/dreschagin/fleet-status/internal/application/port"
	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

const (
	defaultTimeout = 5 * time.Second

	headerInstanceID       = "X-Instance-ID"
	headerAvailabilityZone = "X-Availability-Zone"
	headerRegion           = "X-Region"
)

// Client — HTTP реализация порта NodeClient
type Client struct {
	http   *http.Client
	logger *logger.Logger
}

// NewClient создает клиент с таймаутом на каждый запрос
func NewClient(timeout time.Duration, logger *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// FetchHealth опрашивает узел с цепочкой деградации
func (c *Client) FetchHealth(ctx context.Context, node port.Node) port.HealthFetchResult {
	now := time.Now()

	snapshot, detailedErr := c.fetchDetailed(ctx, node)
	if detailedErr == nil {
		return port.HealthFetchResult{Snapshot: snapshot}
	}

	c.logger.Debug("Detailed health endpoint degraded, falling back",
		"node", node.Name, "error", detailedErr.Error())

	status, identity, plainErr := c.fetchPlain(ctx, node)
	if plainErr == nil {
		fallback := entity.NewFallbackSnapshot(status, identity, now)
		return port.HealthFetchResult{
			Snapshot: fallback,
			FellBack: true,
			Err:      detailedErr.Error(),
		}
	}

	// Полный отказ: узел недоступен по обоим endpoint'ам
	errSnapshot := entity.NewFallbackSnapshot(valueobject.StatusError, entity.ErrorIdentity(), now)
	return port.HealthFetchResult{
		Snapshot: errSnapshot,
		FellBack: true,
		Err:      fmt.Sprintf("detailed: %v; plain: %v", detailedErr, plainErr),
	}
}

// FetchMetrics запрашивает метрики узла
func (c *Client) FetchMetrics(ctx context.Context, node port.Node) (*dto.NodeMetricsDTO, error) {
	body, _, err := c.get(ctx, node.BaseURL+"/api/metrics")
	if err != nil {
		return nil, err
	}

	var metrics dto.NodeMetricsDTO
	if err := json.Unmarshal(body, &metrics); err != nil {
		return nil, fmt.Errorf("failed to parse metrics response: %w", err)
	}
	return &metrics, nil
}

// fetchDetailed читает полный snapshot с /health-detailed
func (c *Client) fetchDetailed(ctx context.Context, node port.Node) (*entity.HealthSnapshot, error) {
	body, _, err := c.get(ctx, node.BaseURL+"/health-detailed")
	if err != nil {
		return nil, err
	}

	var snapshot entity.HealthSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse health snapshot: %w", err)
	}
	return &snapshot, nil
}

// fetchPlain читает упрощенный /health: текстовый статус в теле
// и identity из заголовков, если reporter их проставил
func (c *Client) fetchPlain(ctx context.Context, node port.Node) (valueobject.HealthStatus, entity.InstanceIdentity, error) {
	body, header, err := c.get(ctx, node.BaseURL+"/health")
	if err != nil {
		return valueobject.StatusUnknown, entity.UnknownIdentity(), err
	}

	status := valueobject.ParseHealthStatus(strings.TrimSpace(string(body)))

	identity := entity.UnknownIdentity()
	if id := header.Get(headerInstanceID); id != "" {
		identity.ID = id
	}
	if az := header.Get(headerAvailabilityZone); az != "" {
		identity.AvailabilityZone = az
	}
	if region := header.Get(headerRegion); region != "" {
		identity.Region = region
	}

	return status, identity, nil
}

// get выполняет GET и возвращает тело при 2xx ответе
func (c *Client) get(ctx context.Context, url string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	return body, resp.Header, nil
}
