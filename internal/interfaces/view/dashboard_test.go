package view

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/dto"
	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
)

func buildSnapshot(status valueobject.HealthStatus, syncAge *float64) *entity.HealthSnapshot {
	snapshot := entity.NewHealthSnapshot(time.Now())
	snapshot.Status = status
	snapshot.Instance = entity.InstanceIdentity{
		ID:               "i-0view",
		Type:             "t3.micro",
		AvailabilityZone: "us-gov-west-1a",
		Region:           "us-gov-west-1",
		PrivateIP:        "10.0.1.10",
	}
	snapshot.Services.ContentSync = &entity.ContentSyncStatus{
		Status:               "ok",
		SecondsSinceLastSync: syncAge,
	}
	snapshot.System = entity.SystemMetrics{
		LoadAverage:       "0.10, 0.20, 0.30",
		MemoryUsedPercent: 45.2,
		DiskUsed:          "37%",
	}
	return snapshot
}

func renderToString(t *testing.T, view *dto.FleetViewDTO) string {
	t.Helper()
	var sb strings.Builder
	if err := Dashboard(view).Render(context.Background(), &sb); err != nil {
		t.Fatalf("failed to render dashboard: %v", err)
	}
	return sb.String()
}

func TestDashboard_RendersNodeCards(t *testing.T) {
	syncAge := 120.0
	now := time.Now()

	nodes := []*dto.NodeViewDTO{
		dto.NewNodeViewDTO("web-1", buildSnapshot(valueobject.StatusHealthy, &syncAge), nil, false, "", now),
		dto.NewNodeViewDTO("web-2", buildSnapshot(valueobject.StatusUnhealthy, nil), nil, true, "detailed endpoint down", now),
	}
	view := dto.NewFleetViewDTO(nodes, 0, now)

	html := renderToString(t, view)

	if !strings.Contains(html, "web-1") || !strings.Contains(html, "web-2") {
		t.Fatal("expected both node names in rendered page")
	}
	if !strings.Contains(html, "status-border-green") {
		t.Fatal("expected green border for healthy node")
	}
	if !strings.Contains(html, "status-border-red") {
		t.Fatal("expected red border for unhealthy node")
	}
	if !strings.Contains(html, "2 minutes ago") {
		t.Fatal("expected humanized sync age")
	}
	if !strings.Contains(html, "basic health only") {
		t.Fatal("expected fallback notice for degraded node")
	}
}

func TestDashboard_EscapesUntrustedFields(t *testing.T) {
	now := time.Now()
	snapshot := buildSnapshot(valueobject.StatusHealthy, nil)
	snapshot.Instance.ID = `<script>alert(1)</script>`

	nodes := []*dto.NodeViewDTO{
		dto.NewNodeViewDTO("web-1", snapshot, nil, false, "", now),
	}
	html := renderToString(t, dto.NewFleetViewDTO(nodes, 0, now))

	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatal("expected instance id to be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatal("expected escaped script tag in output")
	}
}

func TestDashboard_EmptyFleet(t *testing.T) {
	html := renderToString(t, dto.NewFleetViewDTO(nil, 0, time.Time{}))

	if !strings.Contains(html, "No nodes polled yet") {
		t.Fatal("expected empty fleet placeholder")
	}
	if !strings.Contains(html, "updated never") {
		t.Fatal("expected zero updated time to render as never")
	}
}
