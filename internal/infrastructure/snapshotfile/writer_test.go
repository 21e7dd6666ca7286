package snapshotfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
)

func TestWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "health.json")
	writer := NewWriter(path)

	age := 42.0
	snapshot := entity.NewHealthSnapshot(time.Now())
	snapshot.Status = valueobject.StatusHealthy
	snapshot.Instance.ID = "i-0abc"
	snapshot.Services.ContentSync = &entity.ContentSyncStatus{
		Status:               "ok",
		SecondsSinceLastSync: &age,
	}

	if err := writer.Write(context.Background(), snapshot); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	got, err := writer.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}

	if got.Status != valueobject.StatusHealthy {
		t.Fatalf("expected healthy, got %s", got.Status)
	}
	if got.Instance.ID != "i-0abc" {
		t.Fatalf("expected instance id i-0abc, got %s", got.Instance.ID)
	}
	if got.SyncAgeSeconds() == nil || *got.SyncAgeSeconds() != 42.0 {
		t.Fatal("expected sync age 42 to survive round trip")
	}
}

func TestWriter_UnknownSyncAgeSerializesAsNull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "health.json")
	writer := NewWriter(path)

	if err := writer.Write(context.Background(), entity.NewHealthSnapshot(time.Now())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	if !strings.Contains(string(raw), `"seconds_since_last_sync": null`) {
		t.Fatalf("expected explicit null for unknown sync age, got:\n%s", raw)
	}
}

func TestWriter_ReplacesPreviousDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "health.json")
	writer := NewWriter(path)

	first := entity.NewHealthSnapshot(time.Now())
	first.Status = valueobject.StatusUnhealthy
	second := entity.NewHealthSnapshot(time.Now())
	second.Status = valueobject.StatusHealthy

	if err := writer.Write(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := writer.Write(context.Background(), second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("document must be valid JSON after overwrite: %v", err)
	}
	if doc["status"] != "healthy" {
		t.Fatalf("expected latest status healthy, got %v", doc["status"])
	}
}

func TestWriter_ReadMissingFile(t *testing.T) {
	writer := NewWriter(filepath.Join(t.TempDir(), "absent.json"))

	if _, err := writer.Read(context.Background()); err == nil {
		t.Fatal("expected error for missing snapshot file")
	}
}
