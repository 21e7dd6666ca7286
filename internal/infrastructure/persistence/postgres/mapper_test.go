package postgres

import (
	"testing"
	"time"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
)

func TestMapper_RoundTripWithSyncAge(t *testing.T) {
	age := 123.5
	original := entity.Reconstruct(
		"rec-1",
		"web-1",
		valueobject.StatusDegraded,
		&age,
		61.2,
		time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		time.Date(2026, 8, 25, 10, 30, 1, 0, time.UTC),
	)

	model := ToDBModel(original)
	if !model.SyncAgeSeconds.Valid || model.SyncAgeSeconds.Float64 != 123.5 {
		t.Fatalf("expected valid sync age 123.5, got %+v", model.SyncAgeSeconds)
	}

	restored := ToEntity(model)
	if restored.ID() != "rec-1" || restored.NodeID() != "web-1" {
		t.Fatalf("identity lost in round trip: %s/%s", restored.ID(), restored.NodeID())
	}
	if restored.Status() != valueobject.StatusDegraded {
		t.Fatalf("expected degraded, got %s", restored.Status())
	}
	if restored.SyncAgeSeconds() == nil || *restored.SyncAgeSeconds() != 123.5 {
		t.Fatal("sync age lost in round trip")
	}
}

func TestMapper_UnknownSyncAgeStoredAsNull(t *testing.T) {
	original := entity.Reconstruct(
		"rec-2",
		"web-2",
		valueobject.StatusUnknown,
		nil,
		0,
		time.Now(),
		time.Now(),
	)

	model := ToDBModel(original)
	if model.SyncAgeSeconds.Valid {
		t.Fatal("unknown sync age must map to NULL")
	}

	restored := ToEntity(model)
	if restored.SyncAgeSeconds() != nil {
		t.Fatal("NULL sync age must restore as nil")
	}
}
