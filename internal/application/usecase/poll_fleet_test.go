package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/dto"
	"github.com/dreschagin/fleet-status/internal/application/port"
	"github.com/dreschagin/fleet-status/internal/application/viewstate"
	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

type stubNodeClient struct {
	results map[string]port.HealthFetchResult
	metrics map[string]*dto.NodeMetricsDTO
}

func (c *stubNodeClient) FetchHealth(ctx context.Context, node port.Node) port.HealthFetchResult {
	if result, ok := c.results[node.Name]; ok {
		return result
	}
	return port.HealthFetchResult{
		Snapshot: entity.NewFallbackSnapshot(valueobject.StatusError, entity.ErrorIdentity(), time.Now()),
		Err:      "node not stubbed",
	}
}

func (c *stubNodeClient) FetchMetrics(ctx context.Context, node port.Node) (*dto.NodeMetricsDTO, error) {
	if m, ok := c.metrics[node.Name]; ok {
		return m, nil
	}
	return nil, context.Canceled
}

type recordingNotifier struct {
	views  []*dto.FleetViewDTO
	alerts []*dto.AlertDTO
}

func (n *recordingNotifier) BroadcastFleetView(view *dto.FleetViewDTO) {
	n.views = append(n.views, view)
}

func (n *recordingNotifier) BroadcastAlert(alert *dto.AlertDTO) {
	n.alerts = append(n.alerts, alert)
}

func (n *recordingNotifier) ClientCount() int {
	return len(n.views)
}

func snapshotWithStatus(status valueobject.HealthStatus) *entity.HealthSnapshot {
	snapshot := entity.NewHealthSnapshot(time.Now())
	snapshot.Status = status
	return snapshot
}

func TestPollFleet_ReplacesViewAndCountsSummary(t *testing.T) {
	store := viewstate.NewStore()
	client := &stubNodeClient{
		results: map[string]port.HealthFetchResult{
			"web-1": {Snapshot: snapshotWithStatus(valueobject.StatusHealthy)},
			"web-2": {Snapshot: snapshotWithStatus(valueobject.StatusDegraded)},
			"web-3": {
				Snapshot: entity.NewFallbackSnapshot(valueobject.StatusError, entity.ErrorIdentity(), time.Now()),
				Err:      "connection refused",
			},
		},
	}

	nodes := []port.Node{
		{Name: "web-1", BaseURL: "http://10.0.1.5:8080"},
		{Name: "web-2", BaseURL: "http://10.0.1.6:8080"},
		{Name: "web-3", BaseURL: "http://10.0.1.7:8080"},
	}

	uc := NewPollFleetUseCase(client, nodes, store, nil, nil, logger.New("error"))

	view, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.Current() != view {
		t.Fatal("expected store to hold the new view")
	}

	if view.Summary.Total != 3 || view.Summary.Healthy != 1 || view.Summary.Degraded != 1 || view.Summary.Errored != 1 {
		t.Fatalf("unexpected summary: %+v", view.Summary)
	}

	// Порядок узлов соответствует конфигурации независимо от порядка завершения goroutine
	for i, node := range nodes {
		if view.Nodes[i].Name != node.Name {
			t.Fatalf("expected node %s at position %d, got %s", node.Name, i, view.Nodes[i].Name)
		}
	}

	if view.Nodes[2].FetchError != "connection refused" {
		t.Fatalf("expected fetch error to surface, got %q", view.Nodes[2].FetchError)
	}
	if view.Nodes[2].StatusColor != valueobject.ColorGray {
		t.Fatalf("expected gray indicator for error node, got %s", view.Nodes[2].StatusColor)
	}
}

func TestPollFleet_NoNodesConfigured(t *testing.T) {
	uc := NewPollFleetUseCase(&stubNodeClient{}, nil, viewstate.NewStore(), nil, nil, logger.New("error"))

	if _, err := uc.Execute(context.Background()); err == nil {
		t.Fatal("expected error when no nodes configured")
	}
}

func TestPollFleet_BroadcastsAndAlertsOnTransition(t *testing.T) {
	store := viewstate.NewStore()
	notifier := &recordingNotifier{}
	client := &stubNodeClient{
		results: map[string]port.HealthFetchResult{
			"web-1": {Snapshot: snapshotWithStatus(valueobject.StatusHealthy)},
		},
	}
	nodes := []port.Node{{Name: "web-1", BaseURL: "http://10.0.1.5:8080"}}

	uc := NewPollFleetUseCase(client, nodes, store, nil, notifier, logger.New("error"))

	if _, err := uc.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.alerts) != 0 {
		t.Fatalf("first cycle must not alert, got %d alerts", len(notifier.alerts))
	}

	client.results["web-1"] = port.HealthFetchResult{Snapshot: snapshotWithStatus(valueobject.StatusUnhealthy)}
	if _, err := uc.Execute(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.views) != 2 {
		t.Fatalf("expected 2 broadcasts, got %d", len(notifier.views))
	}
	if len(notifier.alerts) != 1 {
		t.Fatalf("expected 1 transition alert, got %d", len(notifier.alerts))
	}
	if notifier.alerts[0].Level != "warning" {
		t.Fatalf("expected warning alert, got %s", notifier.alerts[0].Level)
	}
}

func TestPollFleet_SyncFreshnessClassifiedPerNode(t *testing.T) {
	staleAge := 700.0
	snapshot := snapshotWithStatus(valueobject.StatusHealthy)
	snapshot.Services.ContentSync = &entity.ContentSyncStatus{
		Status:               "ok",
		SecondsSinceLastSync: &staleAge,
	}

	store := viewstate.NewStore()
	client := &stubNodeClient{
		results: map[string]port.HealthFetchResult{
			"web-1": {Snapshot: snapshot},
		},
	}

	uc := NewPollFleetUseCase(client, []port.Node{{Name: "web-1"}}, store, nil, nil, logger.New("error"))

	view, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node := view.Nodes[0]
	if node.SyncTier != valueobject.FreshnessStale {
		t.Fatalf("expected stale tier, got %s", node.SyncTier)
	}
	if node.SyncColor != valueobject.ColorRed {
		t.Fatalf("expected red sync indicator, got %s", node.SyncColor)
	}
	// Общий статус узла не зависит от свежести контента
	if node.StatusColor != valueobject.ColorGreen {
		t.Fatalf("expected green status despite stale sync, got %s", node.StatusColor)
	}
}
