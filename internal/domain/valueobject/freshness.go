package valueobject

import "fmt"

// FreshnessTier представляет уровень свежести данных (Value Object)
type FreshnessTier string

const (
	FreshnessFresh   FreshnessTier = "fresh"
	FreshnessWarning FreshnessTier = "warning"
	FreshnessStale   FreshnessTier = "stale"
	FreshnessUnknown FreshnessTier = "unknown"
)

// Пороги свежести в секундах
const (
	freshThresholdSeconds   = 300
	warningThresholdSeconds = 600
)

// ClassifyFreshness мапит возраст события (в секундах) в уровень свежести.
// nil означает, что возраст неизвестен — это отдельный уровень, не stale.
// Отрицательные значения трактуются как "только что" (clock skew).
func ClassifyFreshness(seconds *float64) FreshnessTier {
	if seconds == nil {
		return FreshnessUnknown
	}

	s := *seconds
	if s < 0 {
		s = 0
	}

	switch {
	case s < freshThresholdSeconds:
		return FreshnessFresh
	case s < warningThresholdSeconds:
		return FreshnessWarning
	default:
		return FreshnessStale
	}
}

// Color возвращает цвет индикатора для уровня свежести
func (t FreshnessTier) Color() StatusColor {
	switch t {
	case FreshnessFresh:
		return ColorGreen
	case FreshnessWarning:
		return ColorYellow
	case FreshnessStale:
		return ColorRed
	default:
		return ColorGray
	}
}

// String возвращает строковое представление уровня
func (t FreshnessTier) String() string {
	return string(t)
}

// HumanizeAge возвращает человекочитаемую фразу для возраста события.
// nil -> "Unknown", <=0 -> "just now".
func HumanizeAge(seconds *float64) string {
	if seconds == nil {
		return "Unknown"
	}

	s := int64(*seconds)
	switch {
	case s <= 0:
		return "just now"
	case s == 1:
		return "1 second ago"
	case s < 60:
		return fmt.Sprintf("%d seconds ago", s)
	case s < 120:
		return "1 minute ago"
	case s < 3600:
		return fmt.Sprintf("%d minutes ago", s/60)
	case s < 7200:
		return "1 hour ago"
	default:
		return fmt.Sprintf("%d hours ago", s/3600)
	}
}
