// Package syncmarker работает с marker файлом синхронизации контента.
// Процесс синхронизации пишет в него отметку времени RFC3339 после
// каждого успешного прохода; health reporter читает ее, чтобы
// посчитать возраст контента.
package syncmarker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/port"
)

// FileMarker — файловая реализация портов SyncMarkerReader и SyncMarkerWriter
type FileMarker struct {
	path string
}

// NewFileMarker создает marker по указанному пути
func NewFileMarker(path string) *FileMarker {
	return &FileMarker{path: path}
}

// LastSync читает отметку времени из marker файла.
// Отсутствующий файл или нечитаемое содержимое дают
// port.ErrSyncMarkerUnavailable, не отдельные ошибки:
// для вызывающего обе ситуации означают "возраст неизвестен".
func (m *FileMarker) LastSync(ctx context.Context) (time.Time, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		return time.Time{}, port.ErrSyncMarkerUnavailable
	}

	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(raw)))
	if err != nil {
		return time.Time{}, port.ErrSyncMarkerUnavailable
	}

	return t, nil
}

// WriteMarker атомарно перезаписывает marker: запись во временный
// файл рядом и rename, чтобы читатель никогда не увидел обрезанное содержимое
func (m *FileMarker) WriteMarker(ctx context.Context, t time.Time) error {
	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, ".sync-marker-*")
	if err != nil {
		return fmt.Errorf("failed to create temp marker: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(t.UTC().Format(time.RFC3339) + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp marker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp marker: %w", err)
	}

	if err := os.Rename(tmpPath, m.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace marker: %w", err)
	}
	return nil
}
