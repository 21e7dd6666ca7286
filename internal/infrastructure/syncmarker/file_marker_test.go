package syncmarker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/port"
)

func TestFileMarker_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-sync")
	marker := NewFileMarker(path)

	want := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	if err := marker.WriteMarker(context.Background(), want); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	got, err := marker.LastSync(context.Background())
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFileMarker_MissingFile(t *testing.T) {
	marker := NewFileMarker(filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := marker.LastSync(context.Background())
	if !errors.Is(err, port.ErrSyncMarkerUnavailable) {
		t.Fatalf("expected ErrSyncMarkerUnavailable, got %v", err)
	}
}

func TestFileMarker_CorruptContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-sync")
	if err := os.WriteFile(path, []byte("not a timestamp\n"), 0o644); err != nil {
		t.Fatalf("failed to seed marker: %v", err)
	}

	marker := NewFileMarker(path)

	_, err := marker.LastSync(context.Background())
	if !errors.Is(err, port.ErrSyncMarkerUnavailable) {
		t.Fatalf("expected ErrSyncMarkerUnavailable for corrupt marker, got %v", err)
	}
}

func TestFileMarker_OverwriteKeepsSingleLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last-sync")
	marker := NewFileMarker(path)

	first := time.Now().Add(-time.Hour).Truncate(time.Second)
	second := time.Now().Truncate(time.Second)

	if err := marker.WriteMarker(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := marker.WriteMarker(context.Background(), second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := marker.LastSync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(second.UTC()) {
		t.Fatalf("expected latest marker %v, got %v", second, got)
	}
}
