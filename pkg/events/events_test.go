package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/alerts"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testEvent() models.Event {
	return models.Event{
		Type:      models.EventTypeAccidentCreated,
		Timestamp: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		ActorID:   primitive.NewObjectID(),
		Accident: &models.Accident{
			ID:       primitive.NewObjectID(),
			Title:    "Pile up",
			Location: "M1 J14",
			Severity: models.SeverityCritical,
		},
	}
}

func TestQueuePublisher(t *testing.T) {
	connection := rmq.NewTestConnection()

	publisher, err := NewQueuePublisher(connection)
	require.NoError(t, err)

	event := testEvent()
	require.NoError(t, publisher.Publish(context.Background(), event))

	deliveries := connection.GetDeliveries(QueueName)
	require.Len(t, deliveries, 1)

	var published models.Event
	require.NoError(t, json.Unmarshal([]byte(deliveries[0]), &published))
	assert.Equal(t, models.EventTypeAccidentCreated, published.Type)
	assert.Equal(t, event.Accident.ID, published.Accident.ID)
}

type failingPublisher struct {
	calls int
}

func (f *failingPublisher) Publish(context.Context, models.Event) error {
	f.calls++
	return errors.New("queue unavailable")
}

func TestSendSwallowsFailures(t *testing.T) {
	publisher := &failingPublisher{}

	assert.NotPanics(t, func() {
		Send(context.Background(), publisher, testEvent())
		Send(context.Background(), nil, testEvent())
		Send(context.Background(), NopPublisher{}, testEvent())
	})
	assert.Equal(t, 1, publisher.calls)
}

func TestIndexName(t *testing.T) {
	assert.Equal(t, "road-safety-events-2024-03", IndexName(testEvent()))
}

func TestBatchConsumer(t *testing.T) {
	rules, err := alerts.Parse([]byte(`- name: critical
  expression: Severity == "Critical"
`))
	require.NoError(t, err)

	indexed := map[string]string{}
	index := func(indexName string, document io.ReadSeeker) {
		body, _ := io.ReadAll(document)
		indexed[indexName] = string(body)
	}

	payload, _ := json.Marshal(testEvent())
	good := rmq.NewTestDeliveryString(string(payload))
	bad := rmq.NewTestDeliveryString("{not json")

	NewBatchConsumer(rules, index).Consume(rmq.Deliveries{good, bad})

	assert.Equal(t, rmq.Acked, good.State)
	assert.Equal(t, rmq.Rejected, bad.State)
	assert.JSONEq(t, string(payload), indexed["road-safety-events-2024-03"])
	assert.Len(t, indexed, 1)
}

func TestBatchConsumerWithoutIndex(t *testing.T) {
	payload, _ := json.Marshal(testEvent())
	delivery := rmq.NewTestDeliveryString(string(payload))

	NewBatchConsumer(nil, nil).Consume(rmq.Deliveries{delivery})

	assert.Equal(t, rmq.Acked, delivery.State)
}
