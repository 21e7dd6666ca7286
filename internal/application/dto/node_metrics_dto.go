package dto

import (
	"time"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
)

// ServerInfoDTO — идентификация узла в ответе метрик
type ServerInfoDTO struct {
	InstanceID       string `json:"instance_id"`
	InstanceType     string `json:"instance_type"`
	AvailabilityZone string `json:"availability_zone"`
	Region           string `json:"region"`
	PrivateIP        string `json:"private_ip"`
	Timestamp        string `json:"timestamp"`
}

// NodeMetricsDTO — ответ endpoint'а метрик узла
type NodeMetricsDTO struct {
	Server ServerInfoDTO        `json:"server"`
	System entity.SystemMetrics `json:"system"`
}

// NewNodeMetricsDTO создает DTO метрик из identity и системных метрик
func NewNodeMetricsDTO(identity entity.InstanceIdentity, system entity.SystemMetrics, now time.Time) *NodeMetricsDTO {
	return &NodeMetricsDTO{
		Server: ServerInfoDTO{
			InstanceID:       identity.ID,
			InstanceType:     identity.Type,
			AvailabilityZone: identity.AvailabilityZone,
			Region:           identity.Region,
			PrivateIP:        identity.PrivateIP,
			Timestamp:        now.UTC().Format(time.RFC3339),
		},
		System: system,
	}
}
