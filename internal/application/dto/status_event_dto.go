package dto

import (
	"time"

	"github.com/google/uuid"
)

// StatusChangeEventDTO — событие перехода статуса узла для брокера
type StatusChangeEventDTO struct {
	EventID    string    `json:"event_id"`
	InstanceID string    `json:"instance_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewStatusChangeEventDTO создает событие с уникальным идентификатором
func NewStatusChangeEventDTO(instanceID, from, to string, at time.Time) *StatusChangeEventDTO {
	return &StatusChangeEventDTO{
		EventID:    uuid.New().String(),
		InstanceID: instanceID,
		From:       from,
		To:         to,
		Timestamp:  at,
	}
}

// AlertDTO — уведомление для push-доставки клиентам dashboard'а
type AlertDTO struct {
	Level     string    `json:"level"`
	NodeName  string    `json:"node_name"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
