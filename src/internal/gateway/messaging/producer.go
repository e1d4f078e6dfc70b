package messaging

import (
	"encoding/json"

	"kotidham-service/src/internal/model"
	"kotidham-service/src/pkg/kafka"
	"kotidham-service/src/pkg/log"
)

type Producer[T model.Event] struct {
	Producer kafka.Producer
	Topic    string
	Log      log.Log
}

func (p *Producer[T]) GetTopic() *string {
	return &p.Topic
}

// Send publishes event keyed by its id. A nil producer means kafka is disabled.
func (p *Producer[T]) Send(event T, headers map[string]string) error {
	if p.Producer == nil {
		p.Log.Debug("gateway/messaging/producer", "kafka disabled, event dropped", p.Topic, event.GetId())
		return nil
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.Log.Error("gateway/messaging/producer", "failed to marshal event", "Send", err.Error())
		return err
	}

	message := &kafka.Message{
		Topic:   p.Topic,
		Key:     []byte(event.GetId()),
		Value:   value,
		Headers: headers,
	}

	if err := p.Producer.Publish(message); err != nil {
		p.Log.Error("send-event", "error send message", "send", err.Error())
		return err
	}

	return nil
}
