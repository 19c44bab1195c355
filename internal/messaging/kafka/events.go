package kafka

import (
	"fmt"
	"time"
)

// Topics для Kafka
const (
	TopicEntityEvents    = "rhrh.entity.events"
	TopicDeadLetterQueue = "rhrh.dlq" // сообщения, не опубликованные после всех retry
)

// Kafka headers
const (
	HeaderEventType     = "x-event-type"
	HeaderAggregateType = "x-aggregate-type"
	HeaderOriginalTopic = "x-original-topic"
)

// EntityEvent — тело события об изменении одной коллекции агрегата.
type EntityEvent struct {
	EventType   string    `json:"event_type"`
	Kind        string    `json:"kind"`
	Action      string    `json:"action"`
	Key         string    `json:"key,omitempty"`
	PreviousKey string    `json:"previous_key,omitempty"`
	Count       int       `json:"count"`
	Timestamp   time.Time `json:"timestamp"`
}

// EntityEventType строит тип события вида "rhrh.customer.added".
func EntityEventType(kind, action string) string {
	return fmt.Sprintf("rhrh.%s.%s", kind, action)
}

// NewEntityEvent создает событие об изменении коллекции kind
func NewEntityEvent(kind, action, key, previousKey string, count int) *EntityEvent {
	return &EntityEvent{
		EventType:   EntityEventType(kind, action),
		Kind:        kind,
		Action:      action,
		Key:         key,
		PreviousKey: previousKey,
		Count:       count,
		Timestamp:   time.Now().UTC(),
	}
}
