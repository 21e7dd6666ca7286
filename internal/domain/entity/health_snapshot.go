package entity

import (
	"time"

	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
)

// InstanceIdentity описывает идентичность EC2 инстанса из metadata service
type InstanceIdentity struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	AvailabilityZone string `json:"availability_zone"`
	Region           string `json:"region"`
	PrivateIP        string `json:"private_ip"`
}

// UnknownIdentity возвращает identity со всеми полями "unknown".
// Используется когда metadata service недоступен.
func UnknownIdentity() InstanceIdentity {
	return InstanceIdentity{
		ID:               "unknown",
		Type:             "unknown",
		AvailabilityZone: "unknown",
		Region:           "unknown",
		PrivateIP:        "unknown",
	}
}

// ErrorIdentity возвращает identity со всеми полями "error".
// Используется dashboard'ом при полном отказе сети.
func ErrorIdentity() InstanceIdentity {
	return InstanceIdentity{
		ID:               "error",
		Type:             "error",
		AvailabilityZone: "error",
		Region:           "error",
		PrivateIP:        "error",
	}
}

// WebServerStatus описывает состояние наблюдаемого web-сервера
type WebServerStatus struct {
	Status        string `json:"status"`
	Responding    bool   `json:"responding"`
	Version       string `json:"version,omitempty"`
	UptimeSeconds *int64 `json:"uptime_seconds,omitempty"`
}

// ContentSyncStatus описывает возраст последней успешной синхронизации контента.
// SecondsSinceLastSync сериализуется как null, если marker отсутствует или нечитаем.
type ContentSyncStatus struct {
	Status               string   `json:"status"`
	LastSync             string   `json:"last_sync,omitempty"`
	SecondsSinceLastSync *float64 `json:"seconds_since_last_sync"`
}

// ServiceStatuses — tagged union известных сервисов вместо открытой map.
// У каждого сервиса свой набор опциональных полей.
type ServiceStatuses struct {
	WebServer   *WebServerStatus   `json:"web_server,omitempty"`
	ContentSync *ContentSyncStatus `json:"content_sync,omitempty"`
}

// SystemMetrics содержит системные метрики узла
type SystemMetrics struct {
	LoadAverage       string  `json:"load_average"`
	MemoryUsedPercent float64 `json:"memory_used_percent"`
	DiskUsed          string  `json:"disk_used"`
	UptimeSeconds     uint64  `json:"uptime_seconds"`
}

// HealthSnapshot — единственный авторитетный JSON документ о здоровье узла.
// Полностью перегенерируется на каждом цикле сэмплирования; частичный отказ
// sub-check'а деградирует отдельные поля до "unknown", но не блокирует эмиссию.
type HealthSnapshot struct {
	Status    valueobject.HealthStatus `json:"status"`
	Timestamp string                   `json:"timestamp"`
	Instance  InstanceIdentity         `json:"instance"`
	Services  ServiceStatuses          `json:"services"`
	System    SystemMetrics            `json:"system"`
}

// NewHealthSnapshot создает snapshot с безопасными "unknown" значениями.
// Сэмплер заполняет поля по мере успеха отдельных проверок, поэтому документ
// остается полностью населенным даже при отказе любой из них.
func NewHealthSnapshot(now time.Time) *HealthSnapshot {
	return &HealthSnapshot{
		Status:    valueobject.StatusUnknown,
		Timestamp: now.UTC().Format(time.RFC3339),
		Instance:  UnknownIdentity(),
		Services: ServiceStatuses{
			WebServer:   &WebServerStatus{Status: "unknown"},
			ContentSync: &ContentSyncStatus{Status: "unknown"},
		},
		System: SystemMetrics{
			LoadAverage: "unknown",
			DiskUsed:    "unknown",
		},
	}
}

// NewFallbackSnapshot синтезирует минимальный snapshot для dashboard'а,
// когда детальный health endpoint недоступен.
func NewFallbackSnapshot(status valueobject.HealthStatus, identity InstanceIdentity, now time.Time) *HealthSnapshot {
	snapshot := NewHealthSnapshot(now)
	snapshot.Status = status
	snapshot.Instance = identity
	snapshot.Services.WebServer.Status = status.String()
	snapshot.Services.WebServer.Responding = status == valueobject.StatusHealthy
	return snapshot
}

// SyncAgeSeconds возвращает возраст последней синхронизации или nil
func (s *HealthSnapshot) SyncAgeSeconds() *float64 {
	if s.Services.ContentSync == nil {
		return nil
	}
	return s.Services.ContentSync.SecondsSinceLastSync
}

// SampledAt парсит timestamp документа; zero time если он нечитаем
func (s *HealthSnapshot) SampledAt() time.Time {
	t, err := time.Parse(time.RFC3339, s.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
