package nodeclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/port"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

func newTestClient() *Client {
	return NewClient(2*time.Second, logger.New("error"))
}

func TestFetchHealth_DetailedEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health-detailed" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "healthy",
			"timestamp": "2026-08-25T10:30:00Z",
			"instance": {"id": "i-0abc", "type": "t3.micro", "availability_zone": "us-gov-west-1a", "region": "us-gov-west-1", "private_ip": "10.0.1.5"},
			"services": {
				"web_server": {"status": "active", "responding": true},
				"content_sync": {"status": "ok", "seconds_since_last_sync": 45.2}
			},
			"system": {"load_average": "0.42, 0.37, 0.30", "memory_used_percent": 41.5, "disk_used": "38%", "uptime_seconds": 86400}
		}`))
	}))
	defer server.Close()

	result := newTestClient().FetchHealth(context.Background(), port.Node{Name: "web-1", BaseURL: server.URL})

	if result.Err != "" {
		t.Fatalf("unexpected fetch error: %s", result.Err)
	}
	if result.FellBack {
		t.Fatal("detailed endpoint succeeded, no fallback expected")
	}
	if result.Snapshot.Status != valueobject.StatusHealthy {
		t.Fatalf("expected healthy, got %s", result.Snapshot.Status)
	}
	if result.Snapshot.Instance.ID != "i-0abc" {
		t.Fatalf("expected instance id i-0abc, got %s", result.Snapshot.Instance.ID)
	}
	if age := result.Snapshot.SyncAgeSeconds(); age == nil || *age != 45.2 {
		t.Fatal("expected sync age 45.2")
	}
}

func TestFetchHealth_FallsBackToPlainEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health-detailed":
			w.WriteHeader(http.StatusInternalServerError)
		case "/health":
			w.Header().Set("X-Instance-ID", "i-0abc")
			w.Header().Set("X-Availability-Zone", "us-gov-west-1a")
			w.Header().Set("X-Region", "us-gov-west-1")
			w.Write([]byte("healthy\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	result := newTestClient().FetchHealth(context.Background(), port.Node{Name: "web-1", BaseURL: server.URL})

	if !result.FellBack {
		t.Fatal("expected fallback to plain endpoint")
	}
	if result.Err == "" {
		t.Fatal("expected degradation reason to surface")
	}
	if result.Snapshot.Status != valueobject.StatusHealthy {
		t.Fatalf("expected healthy from plain body, got %s", result.Snapshot.Status)
	}
	if result.Snapshot.Instance.ID != "i-0abc" {
		t.Fatalf("expected identity from headers, got %s", result.Snapshot.Instance.ID)
	}
	// Поля, которых нет в заголовках, остаются unknown
	if result.Snapshot.Instance.Type != "unknown" {
		t.Fatalf("expected unknown instance type, got %s", result.Snapshot.Instance.Type)
	}
}

func TestFetchHealth_PlainWithoutHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health-detailed":
			w.WriteHeader(http.StatusNotFound)
		case "/health":
			w.Write([]byte("DEGRADED"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	result := newTestClient().FetchHealth(context.Background(), port.Node{Name: "web-1", BaseURL: server.URL})

	// Статус парсится без учета регистра
	if result.Snapshot.Status != valueobject.StatusDegraded {
		t.Fatalf("expected degraded, got %s", result.Snapshot.Status)
	}
	if result.Snapshot.Instance.ID != "unknown" {
		t.Fatalf("expected unknown identity without headers, got %s", result.Snapshot.Instance.ID)
	}
}

func TestFetchHealth_TotalFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	result := newTestClient().FetchHealth(context.Background(), port.Node{Name: "web-1", BaseURL: url})

	if result.Snapshot == nil {
		t.Fatal("snapshot must never be nil")
	}
	if result.Snapshot.Status != valueobject.StatusError {
		t.Fatalf("expected error status, got %s", result.Snapshot.Status)
	}
	if result.Snapshot.Instance.ID != "error" {
		t.Fatalf("expected error identity, got %s", result.Snapshot.Instance.ID)
	}
	if result.Err == "" {
		t.Fatal("expected combined error description")
	}
}

func TestFetchHealth_MalformedDetailedFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health-detailed":
			w.Write([]byte(`{"status": `)) // обрезанный JSON
		case "/health":
			w.Write([]byte("unhealthy"))
		}
	}))
	defer server.Close()

	result := newTestClient().FetchHealth(context.Background(), port.Node{Name: "web-1", BaseURL: server.URL})

	if !result.FellBack {
		t.Fatal("malformed JSON must trigger fallback")
	}
	if result.Snapshot.Status != valueobject.StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %s", result.Snapshot.Status)
	}
}

func TestFetchMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/metrics" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"server": {"instance_id": "i-0abc", "instance_type": "t3.micro", "availability_zone": "us-gov-west-1a", "region": "us-gov-west-1", "private_ip": "10.0.1.5", "timestamp": "2026-08-25T10:30:00Z"},
			"system": {"load_average": "0.42, 0.37, 0.30", "memory_used_percent": 41.5, "disk_used": "38%", "uptime_seconds": 86400}
		}`))
	}))
	defer server.Close()

	metrics, err := newTestClient().FetchMetrics(context.Background(), port.Node{Name: "web-1", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.Server.InstanceID != "i-0abc" {
		t.Fatalf("expected instance id, got %s", metrics.Server.InstanceID)
	}
	if metrics.System.MemoryUsedPercent != 41.5 {
		t.Fatalf("expected memory percent 41.5, got %f", metrics.System.MemoryUsedPercent)
	}
}

func TestFetchMetrics_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := newTestClient().FetchMetrics(context.Background(), port.Node{Name: "web-1", BaseURL: server.URL}); err == nil {
		t.Fatal("expected error for unavailable metrics endpoint")
	}
}
