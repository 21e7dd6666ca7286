package valueobject

import "strings"

// HealthStatus представляет общий статус узла (Value Object)
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusUnknown   HealthStatus = "unknown"
	StatusError     HealthStatus = "error"
)

// StatusColor представляет цвет индикатора на dashboard
type StatusColor string

const (
	ColorGreen  StatusColor = "green"
	ColorYellow StatusColor = "yellow"
	ColorRed    StatusColor = "red"
	ColorGray   StatusColor = "gray"
)

// ParseHealthStatus парсит строку статуса без учета регистра.
// Неизвестные значения дают StatusUnknown, а не ошибку.
func ParseHealthStatus(raw string) HealthStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "healthy":
		return StatusHealthy
	case "degraded":
		return StatusDegraded
	case "unhealthy":
		return StatusUnhealthy
	case "error":
		return StatusError
	default:
		return StatusUnknown
	}
}

// ClassifyStatus мапит строку статуса в цвет индикатора.
// healthy -> green, degraded -> yellow, unhealthy -> red, всё остальное -> gray.
func ClassifyStatus(raw string) StatusColor {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "healthy":
		return ColorGreen
	case "degraded":
		return ColorYellow
	case "unhealthy":
		return ColorRed
	default:
		return ColorGray
	}
}

// Color возвращает цвет индикатора для статуса
func (s HealthStatus) Color() StatusColor {
	return ClassifyStatus(string(s))
}

// String возвращает строковое представление статуса
func (s HealthStatus) String() string {
	return string(s)
}

// AllHealthStatuses возвращает список всех допустимых статусов
func AllHealthStatuses() []HealthStatus {
	return []HealthStatus{StatusHealthy, StatusDegraded, StatusUnhealthy, StatusUnknown, StatusError}
}
