package kafka

import (
	"fmt"
	"time"

	"kotidham-service/src/pkg/log"

	"github.com/IBM/sarama"
)

type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

type Producer interface {
	Publish(message *Message) error
	Close() error
}

type Cfg struct {
	Brokers  []string
	ClientID string
	Username string
	Password string
}

func (c Cfg) SaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = c.ClientID
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = 500 * time.Millisecond
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Net.DialTimeout = 5 * time.Second
	cfg.Version = sarama.V2_6_0_0

	if c.Username != "" {
		cfg.Net.SASL.Enable = true
		cfg.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		cfg.Net.SASL.User = c.Username
		cfg.Net.SASL.Password = c.Password
		cfg.Net.TLS.Enable = true
	}
	return cfg
}

type syncProducer struct {
	producer sarama.SyncProducer
	log      log.Log
}

func NewProducer(cfg Cfg, log log.Log) (Producer, error) {
	p, err := sarama.NewSyncProducer(cfg.Brokers, cfg.SaramaConfig())
	if err != nil {
		return nil, err
	}
	return NewProducerFrom(p, log), nil
}

// NewProducerFrom wraps an existing sarama producer (mocks in tests).
func NewProducerFrom(p sarama.SyncProducer, log log.Log) Producer {
	return &syncProducer{producer: p, log: log}
}

func (p *syncProducer) Publish(message *Message) error {
	msg := &sarama.ProducerMessage{
		Topic: message.Topic,
		Key:   sarama.ByteEncoder(message.Key),
		Value: sarama.ByteEncoder(message.Value),
	}
	for k, v := range message.Headers {
		msg.Headers = append(msg.Headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return err
	}
	p.log.Debug("kafka-producer", "message delivered", message.Topic, fmt.Sprintf("%s@%d:%d", message.Key, partition, offset))
	return nil
}

func (p *syncProducer) Close() error {
	return p.producer.Close()
}
