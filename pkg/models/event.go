package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	Type      EventType          `json:"type"`
	Timestamp time.Time          `json:"timestamp"`
	ActorID   primitive.ObjectID `json:"actorId"`
	Accident  *Accident          `json:"accident"`
}

type EventType string

const (
	EventTypeAccidentCreated  EventType = "accident.created"
	EventTypeAccidentUpdated  EventType = "accident.updated"
	EventTypeAccidentDeleted  EventType = "accident.deleted"
	EventTypeAccidentVerified EventType = "accident.verified"
	EventTypeAccidentRejected EventType = "accident.rejected"
)

func NewEvent(eventType EventType, actor *User, accident *Accident) Event {
	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Accident:  accident,
	}
	if actor != nil {
		event.ActorID = actor.ID
	}

	return event
}
