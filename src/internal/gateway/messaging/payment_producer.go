package messaging

import (
	"context"

	"kotidham-service/src/internal/model"
	"kotidham-service/src/pkg/kafka"
	"kotidham-service/src/pkg/log"
)

type PaymentProducer struct {
	Producer[*model.PaymentEvent]
}

func NewPaymentProducer(producer kafka.Producer, topic string, log log.Log) *PaymentProducer {
	return &PaymentProducer{
		Producer: Producer[*model.PaymentEvent]{
			Producer: producer,
			Topic:    topic,
			Log:      log,
		},
	}
}

func (p *PaymentProducer) PublishPayment(ctx context.Context, event *model.PaymentEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.Send(event, map[string]string{
		"event_type":     event.Type,
		"reference_kind": event.ReferenceKind,
	})
}
