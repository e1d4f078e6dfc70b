package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"

	PaymentMethodOnline = "online"
	PaymentMethodCOD    = "cod"

	OrderPaymentPending = "pending"
	OrderPaymentSuccess = "success"
	OrderPaymentFailed  = "failed"
)

type Order struct {
	ID              int64           `db:"id" json:"id"`
	OrderNumber     string          `db:"order_number" json:"order_number"`
	UserID          int64           `db:"user_id" json:"user_id"`
	PromoCodeID     *int64          `db:"promo_code_id" json:"promo_code_id"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	DiscountAmount  decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	ShippingCharges decimal.Decimal `db:"shipping_charges" json:"shipping_charges"`
	TaxAmount       decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`

	ShippingName    string  `db:"shipping_name" json:"shipping_name"`
	ShippingPhone   string  `db:"shipping_phone" json:"shipping_phone"`
	ShippingEmail   *string `db:"shipping_email" json:"shipping_email"`
	ShippingAddress string  `db:"shipping_address" json:"shipping_address"`
	ShippingCity    string  `db:"shipping_city" json:"shipping_city"`
	ShippingState   string  `db:"shipping_state" json:"shipping_state"`
	ShippingPincode string  `db:"shipping_pincode" json:"shipping_pincode"`
	Notes           *string `db:"notes" json:"notes"`

	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	Status        string    `db:"status" json:"status"`
	PaymentStatus string    `db:"payment_status" json:"payment_status"`
	StockReleased bool      `db:"stock_released" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	Items []OrderItem `db:"-" json:"items"`
}

func (o *Order) Cancellable() bool {
	return o.Status == OrderPending || o.Status == OrderConfirmed
}

type OrderItem struct {
	ID          int64           `db:"id" json:"id"`
	OrderID     int64           `db:"order_id" json:"order_id"`
	ProductID   int64           `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalPrice  decimal.Decimal `db:"total_price" json:"total_price"`
}

type OrderFilter struct {
	UserID        *int64
	Status        *string
	PaymentStatus *string
	Skip          int
	Limit         int
}
