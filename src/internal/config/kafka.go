package config

import (
	kafkaPkg "kotidham-service/src/pkg/kafka"
	"kotidham-service/src/pkg/log"
)

// NewKafkaProducer returns nil when publishing is switched off; the payment producer treats nil as a no-op.
func NewKafkaProducer(cfg *AppConfig, log log.Log) (kafkaPkg.Producer, error) {
	if !cfg.Kafka.Enabled {
		log.Info("kafka-config", "Kafka producer is disabled in configuration", "kafka", "")
		return nil, nil
	}
	return kafkaPkg.NewProducer(kafkaPkg.Cfg{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: cfg.Kafka.ClientID,
		Username: cfg.Kafka.Username,
		Password: cfg.Kafka.Password,
	}, log)
}
