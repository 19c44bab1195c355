package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer, log.WithField("component", "kafka-producer-test"))

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event EntityEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.EventType != "rhrh.customer.added" || event.Key != "Alice" {
			t.Errorf("unexpected event %+v", event)
		}
		return nil
	})

	event := NewEntityEvent("customer", "added", "Alice", "", 1)
	if err := producer.PublishEvent(TopicEntityEvents, "customer/Alice", event); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer, nil)

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewEntityEvent("supplier", "removed", "Bob", "", 0)
	if err := producer.PublishEvent(TopicEntityEvents, "supplier/Bob", event); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_MarshalError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer, nil)

	if err := producer.PublishEvent(TopicEntityEvents, "k", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	if _, err := NewProducer(nil, ""); err == nil {
		t.Fatal("expected error without brokers")
	}
}

func TestNewEntityEvent(t *testing.T) {
	event := NewEntityEvent("employee", "updated", "Carol", "Caroline", 3)

	if event.EventType != "rhrh.employee.updated" {
		t.Errorf("expected event type rhrh.employee.updated, got %s", event.EventType)
	}
	if event.PreviousKey != "Caroline" || event.Count != 3 {
		t.Errorf("unexpected event fields %+v", event)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}
	if time.Since(event.Timestamp) > time.Second {
		t.Error("timestamp should be close to current time")
	}
}
