package collector

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
)

// SystemCollector собирает системные метрики узла
// Реализует интерфейс port.SystemCollector
type SystemCollector struct {
	diskPath string
}

// NewSystemCollector создает новый системный collector.
// diskPath — точка монтирования для метрики диска (по умолчанию "/").
func NewSystemCollector(diskPath string) *SystemCollector {
	if diskPath == "" {
		diskPath = "/"
	}
	return &SystemCollector{diskPath: diskPath}
}

// Collect собирает load average, память, диск и uptime.
// Каждый источник деградирует независимо: отказавшее поле
// остается "unknown" (или нулевым), остальные заполняются.
func (c *SystemCollector) Collect(ctx context.Context) (entity.SystemMetrics, error) {
	metrics := entity.SystemMetrics{
		LoadAverage: "unknown",
		DiskUsed:    "unknown",
	}
	var degraded []string

	if avg, err := load.AvgWithContext(ctx); err != nil {
		degraded = append(degraded, "load_average")
	} else {
		metrics.LoadAverage = formatLoadAverage(avg.Load1, avg.Load5, avg.Load15)
	}

	if vmStat, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		degraded = append(degraded, "memory")
	} else {
		metrics.MemoryUsedPercent = vmStat.UsedPercent
	}

	if usage, err := disk.UsageWithContext(ctx, c.diskPath); err != nil {
		degraded = append(degraded, "disk")
	} else {
		metrics.DiskUsed = formatDiskUsed(usage.UsedPercent)
	}

	if uptime, err := host.UptimeWithContext(ctx); err != nil {
		degraded = append(degraded, "uptime")
	} else {
		metrics.UptimeSeconds = uptime
	}

	if len(degraded) > 0 {
		return metrics, fmt.Errorf("system metrics degraded: %s", strings.Join(degraded, ", "))
	}
	return metrics, nil
}

// formatLoadAverage форматирует load average в привычном виде uptime(1)
func formatLoadAverage(load1, load5, load15 float64) string {
	return fmt.Sprintf("%.2f, %.2f, %.2f", load1, load5, load15)
}

// formatDiskUsed форматирует использование диска как целый процент
func formatDiskUsed(usedPercent float64) string {
	return fmt.Sprintf("%.0f%%", usedPercent)
}
