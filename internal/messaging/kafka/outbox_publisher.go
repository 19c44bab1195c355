package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/rhrh/internal/domain"
)

// OutboxTopicPublisher публикует outbox-сообщения в заданный Kafka topic.
// Ключом сообщения служит ключ сущности, поэтому события одной записи попадают в одну партицию.
type OutboxTopicPublisher struct {
	producer *Producer
	topic    string
}

// NewOutboxPublisher создаёт Kafka-паблишер для outbox; пустой topic означает TopicEntityEvents.
func NewOutboxPublisher(producer *Producer, topic string) *OutboxTopicPublisher {
	if topic == "" {
		topic = TopicEntityEvents
	}
	return &OutboxTopicPublisher{
		producer: producer,
		topic:    topic,
	}
}

// Topic возвращает topic, в который пишет паблишер.
func (p *OutboxTopicPublisher) Topic() string {
	return p.topic
}

func (p *OutboxTopicPublisher) Publish(event domain.OutboxMessage) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka outbox publisher is not initialized")
	}

	key := event.AggregateType + "/" + event.AggregateID
	if event.AggregateID == "" {
		key = event.ID
	}

	envelope := struct {
		ID            string          `json:"id"`
		AggregateType string          `json:"aggregate_type"`
		AggregateID   string          `json:"aggregate_id"`
		EventType     string          `json:"event_type"`
		Payload       json.RawMessage `json:"payload"`
		CreatedAt     time.Time       `json:"created_at"`
		PublishedAt   time.Time       `json:"published_at"`
	}{
		ID:            event.ID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Payload:       json.RawMessage(event.Payload),
		CreatedAt:     event.CreatedAt,
		PublishedAt:   time.Now().UTC(),
	}

	headers := map[string]string{
		HeaderEventType:     event.EventType,
		HeaderAggregateType: event.AggregateType,
	}
	if p.topic == TopicDeadLetterQueue {
		headers[HeaderOriginalTopic] = TopicEntityEvents
	}

	return p.producer.PublishEventWithHeaders(p.topic, key, envelope, headers)
}

var _ domain.OutboxPublisher = (*OutboxTopicPublisher)(nil)
