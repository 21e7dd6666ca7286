package service

import (
	"testing"
	"time"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
)

func record(t *testing.T, id string, status valueobject.HealthStatus, syncAge *float64, collected time.Time) *entity.HealthRecord {
	t.Helper()
	return entity.Reconstruct(id, "web-1", status, syncAge, 50, collected, collected)
}

func TestAvailability(t *testing.T) {
	aggregator := NewHistoryAggregator()
	now := time.Now()

	records := []*entity.HealthRecord{
		record(t, "a", valueobject.StatusHealthy, nil, now),
		record(t, "b", valueobject.StatusHealthy, nil, now),
		record(t, "c", valueobject.StatusUnhealthy, nil, now),
		record(t, "d", valueobject.StatusHealthy, nil, now),
	}

	availability, err := aggregator.Availability(records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if availability != 75 {
		t.Errorf("expected 75%% availability, got %f", availability)
	}
}

func TestAvailability_NoRecords(t *testing.T) {
	aggregator := NewHistoryAggregator()
	if _, err := aggregator.Availability(nil); err == nil {
		t.Fatal("expected error for empty records")
	}
}

func TestSortByTime(t *testing.T) {
	aggregator := NewHistoryAggregator()
	now := time.Now()

	records := []*entity.HealthRecord{
		record(t, "newest", valueobject.StatusHealthy, nil, now),
		record(t, "oldest", valueobject.StatusHealthy, nil, now.Add(-time.Hour)),
		record(t, "middle", valueobject.StatusHealthy, nil, now.Add(-30*time.Minute)),
	}

	ascending := aggregator.SortByTime(records, false)
	if ascending[0].ID() != "oldest" || ascending[2].ID() != "newest" {
		t.Errorf("unexpected ascending order: %s, %s, %s",
			ascending[0].ID(), ascending[1].ID(), ascending[2].ID())
	}

	descending := aggregator.SortByTime(records, true)
	if descending[0].ID() != "newest" {
		t.Errorf("expected newest first, got %s", descending[0].ID())
	}

	// Исходный slice не должен меняться
	if records[0].ID() != "newest" {
		t.Error("expected input slice to be untouched")
	}
}

func TestCountByStatus(t *testing.T) {
	aggregator := NewHistoryAggregator()
	now := time.Now()

	counts := aggregator.CountByStatus([]*entity.HealthRecord{
		record(t, "a", valueobject.StatusHealthy, nil, now),
		record(t, "b", valueobject.StatusHealthy, nil, now),
		record(t, "c", valueobject.StatusDegraded, nil, now),
	})

	if counts[valueobject.StatusHealthy] != 2 || counts[valueobject.StatusDegraded] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestMaxSyncAge(t *testing.T) {
	aggregator := NewHistoryAggregator()
	now := time.Now()
	age1, age2 := 120.0, 450.0

	max, found := aggregator.MaxSyncAge([]*entity.HealthRecord{
		record(t, "a", valueobject.StatusHealthy, &age1, now),
		record(t, "b", valueobject.StatusHealthy, nil, now),
		record(t, "c", valueobject.StatusHealthy, &age2, now),
	})
	if !found || max != 450 {
		t.Errorf("expected max 450, got %f (found=%v)", max, found)
	}

	_, found = aggregator.MaxSyncAge([]*entity.HealthRecord{
		record(t, "d", valueobject.StatusHealthy, nil, now),
	})
	if found {
		t.Error("expected no known sync age")
	}
}
