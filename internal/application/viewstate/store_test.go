package viewstate

import (
	"sync"
	"testing"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/dto"
)

func TestStore_EmptyBeforeFirstReplace(t *testing.T) {
	store := NewStore()

	if store.Current() != nil {
		t.Fatal("expected nil view before first replace")
	}

	if _, ok := store.Age(time.Now()); ok {
		t.Fatal("expected no age before first replace")
	}
}

func TestStore_ReplaceLastWriteWins(t *testing.T) {
	store := NewStore()

	first := dto.NewFleetViewDTO(nil, 0, time.Now().Add(-time.Minute))
	second := dto.NewFleetViewDTO(nil, 0, time.Now())

	store.Replace(first)
	store.Replace(second)

	if store.Current() != second {
		t.Fatal("expected last written view to win")
	}
}

func TestStore_IncrementRefreshDoesNotTouchView(t *testing.T) {
	store := NewStore()
	view := dto.NewFleetViewDTO(nil, 3, time.Now())
	store.Replace(view)

	got := store.IncrementRefresh()
	if got != 1 {
		t.Fatalf("expected refresh count 1, got %d", got)
	}

	if view.RefreshCount != 3 {
		t.Fatalf("published view must stay immutable, got count %d", view.RefreshCount)
	}

	if store.RefreshCount() != 1 {
		t.Fatalf("expected stored counter 1, got %d", store.RefreshCount())
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Replace(dto.NewFleetViewDTO(nil, 0, time.Now()))
		}()
		go func() {
			defer wg.Done()
			store.IncrementRefresh()
			_ = store.Current()
		}()
	}
	wg.Wait()

	if store.RefreshCount() != 50 {
		t.Fatalf("expected 50 refreshes, got %d", store.RefreshCount())
	}

	if store.Current() == nil {
		t.Fatal("expected a current view after writes")
	}
}
