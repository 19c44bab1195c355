package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/rhrh/internal/messaging/kafka"
)

// initKafkaProducer создаёт producer, если брокеры заданы.
// Без брокеров возвращает nil, nil: сервис работает без публикации событий.
func initKafkaProducer(cfg Config, logger *log.Entry) (*kafka.Producer, error) {
	if !cfg.KafkaEnabled() {
		return nil, nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaClientID)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, err
	}

	logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
	return producer, nil
}

func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}
