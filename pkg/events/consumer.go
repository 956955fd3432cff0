package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/adjust/rmq/v5"
	"github.com/kr/pretty"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/alerts"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/rs/zerolog/log"
)

type IndexFunc func(indexName string, document io.ReadSeeker)

type BatchConsumer struct {
	rules *alerts.RuleSet
	index IndexFunc
}

// NewBatchConsumer evaluates rules against every event and hands each one to
// index when it is non-nil.
func NewBatchConsumer(rules *alerts.RuleSet, index IndexFunc) *BatchConsumer {
	return &BatchConsumer{rules: rules, index: index}
}

// IndexName is the monthly archive index an event is written to.
func IndexName(event models.Event) string {
	return fmt.Sprintf("road-safety-events-%s", event.Timestamp.UTC().Format("2006-01"))
}

func (c *BatchConsumer) Consume(batch rmq.Deliveries) {
	for _, delivery := range batch {
		payload := delivery.Payload()

		var event models.Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Error().Err(err).Str("payload", payload).Msg("Failed to decode event")

			if err := delivery.Reject(); err != nil {
				log.Error().Err(err).Msg("Failed to reject event")
			}
			continue
		}

		c.handle(event, payload)

		if err := delivery.Ack(); err != nil {
			log.Error().Err(err).Msg("Failed to ack event")
		}
	}
}

func (c *BatchConsumer) handle(event models.Event, payload string) {
	log.Debug().Msg(pretty.Sprint(event))

	matched, err := c.rules.Match(event)
	if err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to evaluate alert rules")
	}

	for _, rule := range matched {
		logger := log.Warn().Str("rule", rule).Str("type", string(event.Type))
		if event.Accident != nil {
			logger = logger.
				Str("accident", event.Accident.ID.Hex()).
				Str("location", event.Accident.Location).
				Str("severity", string(event.Accident.Severity))
		}
		logger.Msg("Alert rule matched")
	}

	if c.index != nil {
		c.index(IndexName(event), bytes.NewReader([]byte(payload)))
	}
}
