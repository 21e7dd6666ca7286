package port

import (
	"context"
	"time"
)

// MetricPoint is a single datapoint destined for an external metrics backend.
type MetricPoint struct {
	Name       string
	Value      float64
	Unit       string
	Timestamp  time.Time
	Dimensions map[string]string
}

// MetricsPublisher publishes node health metrics to an external backend (Port)
// Implementation lives in the infrastructure layer (CloudWatch)
type MetricsPublisher interface {
	// Publish enqueues a single datapoint for delivery
	Publish(ctx context.Context, point MetricPoint) error

	// PublishBatch enqueues multiple datapoints for delivery
	PublishBatch(ctx context.Context, points []MetricPoint) error

	// Flush forces delivery of all buffered datapoints
	Flush(ctx context.Context) error
}
