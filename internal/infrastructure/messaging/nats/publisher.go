package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dreschagin/fleet-status/internal/application/dto"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

const statusChangeSubject = "fleet.health.status_changed"

// NATSPublisher implements port.EventPublisher for NATS JetStream.
// Каждый переход статуса узла публикуется как отдельное событие,
// чтобы внешние подписчики (alerting, аудит) реагировали без опроса.
type NATSPublisher struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *logger.Logger
}

// NewNATSPublisher creates a new NATS publisher
func NewNATSPublisher(natsURL string, log *logger.Logger) (*NATSPublisher, error) {
	// Connect to NATS with retry
	nc, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", "error", err.Error())
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	// Get JetStream context
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	log.Info("Connected to NATS", "url", natsURL)

	return &NATSPublisher{
		nc:     nc,
		js:     js,
		logger: log,
	}, nil
}

// PublishStatusChange publishes a node status transition event (async)
func (p *NATSPublisher) PublishStatusChange(ctx context.Context, event *dto.StatusChangeEventDTO) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal status change event: %w", err)
	}

	// Async publish (fire-and-forget for better performance)
	_, err = p.js.PublishAsync(statusChangeSubject, data)
	if err != nil {
		p.logger.Error("Failed to publish status change event", err,
			"subject", statusChangeSubject,
			"instance", event.InstanceID,
		)
		return fmt.Errorf("failed to publish status change event: %w", err)
	}

	p.logger.Debug("Status change event published",
		"subject", statusChangeSubject,
		"instance", event.InstanceID,
		"from", event.From,
		"to", event.To,
	)

	return nil
}

// Close closes the NATS connection
func (p *NATSPublisher) Close() error {
	if p.nc != nil {
		p.logger.Info("Closing NATS connection")
		p.nc.Close()
	}
	return nil
}
