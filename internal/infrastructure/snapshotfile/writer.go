// Package snapshotfile публикует health snapshot атомарной перезаписью
// JSON файла. Файл отдается web-сервером как /health-detailed и читается
// внешними потребителями, поэтому частично записанный документ недопустим.
package snapshotfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
)

// Writer — файловая реализация порта SnapshotWriter
type Writer struct {
	path string
}

// NewWriter создает writer для указанного пути
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path возвращает путь к публикуемому файлу
func (w *Writer) Path() string {
	return w.path
}

// Write сериализует snapshot и атомарно замещает предыдущий файл
func (w *Writer) Write(ctx context.Context, snapshot *entity.HealthSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".health-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}

	// Snapshot отдается web-сервером, права должны позволять чтение
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to chmod snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, w.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Read читает последний опубликованный snapshot (для health endpoint'а)
func (w *Writer) Read(ctx context.Context) (*entity.HealthSnapshot, error) {
	raw, err := os.ReadFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot entity.HealthSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snapshot, nil
}
