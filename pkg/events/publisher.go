package events

import (
	"context"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/redis_client"
	"github.com/rs/zerolog/log"
)

const QueueName = "accident-events"

// Publisher hands report lifecycle events to whatever processes them out of
// band. Publishing happens after the write it describes has succeeded.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

type QueuePublisher struct {
	queue rmq.Queue
}

func NewQueuePublisher(connection rmq.Connection) (*QueuePublisher, error) {
	queue, err := connection.OpenQueue(QueueName)
	if err != nil {
		return nil, err
	}

	return &QueuePublisher{queue: queue}, nil
}

func (p *QueuePublisher) Publish(_ context.Context, event models.Event) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.queue.PublishBytes(eventBytes)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.Event) error {
	return nil
}

// NewPublisher publishes onto the Redis queue when a queue connection has been
// opened and drops events otherwise.
func NewPublisher() Publisher {
	if redis_client.QueueConnection == nil {
		log.Info().Msg("Redis not configured, lifecycle events disabled")
		return NopPublisher{}
	}

	publisher, err := NewQueuePublisher(redis_client.QueueConnection)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open events queue, lifecycle events disabled")
		return NopPublisher{}
	}

	return publisher
}

// Send publishes an event and logs rather than returns a failure, so a queue
// outage never fails the request that caused the event.
func Send(ctx context.Context, publisher Publisher, event models.Event) {
	if publisher == nil {
		return
	}

	if err := publisher.Publish(ctx, event); err != nil {
		logger := log.Error().Err(err).Str("type", string(event.Type))
		if event.Accident != nil {
			logger = logger.Str("accident", event.Accident.ID.Hex())
		}
		logger.Msg("Failed to publish event")
	}
}
