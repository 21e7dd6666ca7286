package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/port"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

type fakeMirror struct {
	stats port.MirrorStats
	err   error
	calls int
}

func (m *fakeMirror) Mirror(ctx context.Context) (port.MirrorStats, error) {
	m.calls++
	return m.stats, m.err
}

type fakeMarkerWriter struct {
	written []time.Time
	err     error
}

func (w *fakeMarkerWriter) WriteMarker(ctx context.Context, t time.Time) error {
	if w.err != nil {
		return w.err
	}
	w.written = append(w.written, t)
	return nil
}

func TestSyncContent_SuccessUpdatesMarker(t *testing.T) {
	mirror := &fakeMirror{stats: port.MirrorStats{Downloaded: 3, Skipped: 7, Bytes: 4096}}
	marker := &fakeMarkerWriter{}
	uc := NewSyncContentUseCase(mirror, marker, logger.New("error"))

	stats, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Downloaded != 3 || stats.Skipped != 7 || stats.Bytes != 4096 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if len(marker.written) != 1 {
		t.Fatalf("expected one marker write, got %d", len(marker.written))
	}
}

func TestSyncContent_MirrorFailureKeepsMarker(t *testing.T) {
	mirror := &fakeMirror{err: errors.New("bucket unreachable")}
	marker := &fakeMarkerWriter{}
	uc := NewSyncContentUseCase(mirror, marker, logger.New("error"))

	if _, err := uc.Execute(context.Background()); err == nil {
		t.Fatal("expected error when mirror pass fails")
	}
	if len(marker.written) != 0 {
		t.Fatal("marker must not move after a failed mirror pass")
	}
}

func TestSyncContent_MarkerFailureSurfaces(t *testing.T) {
	mirror := &fakeMirror{stats: port.MirrorStats{Downloaded: 1}}
	marker := &fakeMarkerWriter{err: errors.New("read-only filesystem")}
	uc := NewSyncContentUseCase(mirror, marker, logger.New("error"))

	stats, err := uc.Execute(context.Background())
	if err == nil {
		t.Fatal("expected error when marker write fails")
	}
	if stats.Downloaded != 1 {
		t.Fatalf("stats from the completed mirror pass must survive, got %+v", stats)
	}
}
