// Package viewstate хранит последнее построенное состояние флота.
// Состояние иммутабельно: каждый цикл опроса замещает его целиком
// (last-write-wins), читатели никогда не видят частичное обновление.
package viewstate

import (
	"sync"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/dto"
)

// Store — потокобезопасное хранилище текущего FleetViewDTO
type Store struct {
	mu           sync.RWMutex
	current      *dto.FleetViewDTO
	refreshCount uint64
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{}
}

// Replace замещает текущее состояние целиком
func (s *Store) Replace(view *dto.FleetViewDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = view
}

// Current возвращает последнее состояние или nil до первого цикла опроса
func (s *Store) Current() *dto.FleetViewDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IncrementRefresh увеличивает счетчик ручных обновлений и
// возвращает новое значение. Таймер автоопроса не затрагивается.
func (s *Store) IncrementRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshCount++
	return s.refreshCount
}

// RefreshCount возвращает текущее значение счетчика ручных обновлений
func (s *Store) RefreshCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshCount
}

// Age возвращает возраст текущего состояния; ок=false до первого опроса
func (s *Store) Age(now time.Time) (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return 0, false
	}
	return now.Sub(s.current.UpdatedAt), true
}
