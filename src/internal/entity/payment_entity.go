package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentCreated  = "created"
	PaymentPending  = "pending"
	PaymentSuccess  = "success"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Payment is a gateway payment row for either a booking or a product order.
// ReferenceID holds the booking id or order id depending on the table.
type Payment struct {
	ID               int64           `db:"id" json:"id"`
	ReferenceID      int64           `db:"reference_id" json:"reference_id"`
	GatewayOrderID   string          `db:"gateway_order_id" json:"razorpay_order_id"`
	GatewayPaymentID *string         `db:"gateway_payment_id" json:"razorpay_payment_id"`
	Signature        *string         `db:"signature" json:"-"`
	Amount           decimal.Decimal `db:"amount" json:"amount"`
	Currency         string          `db:"currency" json:"currency"`
	Status           string          `db:"status" json:"status"`
	RefundID         *string         `db:"refund_id" json:"refund_id"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// InFlight payments are reused instead of opening a second gateway order.
func (p *Payment) InFlight() bool {
	return p.Status == PaymentSuccess || p.Status == PaymentPending
}

func (p *Payment) Settled() bool {
	return p.Status == PaymentSuccess || p.Status == PaymentFailed || p.Status == PaymentRefunded
}
