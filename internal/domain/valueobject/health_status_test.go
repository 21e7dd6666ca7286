package valueobject

import "testing"

func TestParseHealthStatus(t *testing.T) {
	cases := []struct {
		raw      string
		expected HealthStatus
	}{
		{"healthy", StatusHealthy},
		{"HEALTHY", StatusHealthy},
		{" Degraded ", StatusDegraded},
		{"unhealthy", StatusUnhealthy},
		{"error", StatusError},
		{"", StatusUnknown},
		{"garbage", StatusUnknown},
	}

	for _, tc := range cases {
		if got := ParseHealthStatus(tc.raw); got != tc.expected {
			t.Errorf("ParseHealthStatus(%q) = %s, expected %s", tc.raw, got, tc.expected)
		}
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		raw      string
		expected StatusColor
	}{
		{"healthy", ColorGreen},
		{"degraded", ColorYellow},
		{"unhealthy", ColorRed},
		{"unknown", ColorGray},
		{"error", ColorGray},
		{"", ColorGray},
	}

	for _, tc := range cases {
		if got := ClassifyStatus(tc.raw); got != tc.expected {
			t.Errorf("ClassifyStatus(%q) = %s, expected %s", tc.raw, got, tc.expected)
		}
	}
}
