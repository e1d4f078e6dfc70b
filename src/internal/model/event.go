package model

import "time"

type Event interface {
	GetId() string
}

const (
	PaymentEventSucceeded = "payment.succeeded"
	PaymentEventFailed    = "payment.failed"
	PaymentEventRefunded  = "payment.refunded"

	ReferenceBooking = "booking"
	ReferenceOrder   = "order"
)

type PaymentEvent struct {
	ID               string    `json:"id"`
	Type             string    `json:"type"`
	ReferenceKind    string    `json:"reference_kind"`
	ReferenceID      int64     `json:"reference_id"`
	PaymentID        int64     `json:"payment_id"`
	GatewayOrderID   string    `json:"gateway_order_id"`
	GatewayPaymentID string    `json:"gateway_payment_id,omitempty"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	OccurredAt       time.Time `json:"occurred_at"`
}

func (e *PaymentEvent) GetId() string {
	return e.ID
}

const (
	NotifyPending   = "pending"
	NotifyConfirmed = "confirmed"
	NotifyCompleted = "completed"
)

// NotificationEvent is the payload of a notification task.
type NotificationEvent struct {
	Kind  string `json:"kind"`
	ID    int64  `json:"id"`
	Event string `json:"event"`
}
