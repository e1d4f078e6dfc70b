package model

import (
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	BookingID int64 `json:"booking_id" query:"booking_id" validate:"required,gt=0"`
}

type CreateOrderPaymentRequest struct {
	OrderID int64 `json:"order_id" query:"order_id" validate:"required,gt=0"`
}

// VerifyPaymentRequest is the signed callback triple posted by checkout.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" query:"razorpay_order_id" form:"razorpay_order_id" validate:"required,max=100"`
	RazorpayPaymentID string `json:"razorpay_payment_id" query:"razorpay_payment_id" form:"razorpay_payment_id" validate:"required,max=100"`
	RazorpaySignature string `json:"razorpay_signature" query:"razorpay_signature" form:"razorpay_signature" validate:"required,max=256"`
}

type GatewayOrderResponse struct {
	PaymentID       int64           `json:"payment_id"`
	ReferenceID     int64           `json:"reference_id"`
	RazorpayOrderID string          `json:"razorpay_order_id"`
	Amount          decimal.Decimal `json:"amount"`
	AmountMinor     int64           `json:"amount_paise"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	KeyID           string          `json:"key_id"`
}

type VerifyPaymentResponse struct {
	Message   string `json:"message"`
	PaymentID int64  `json:"payment_id"`
	Status    string `json:"status"`
}

type OrderPaymentStatusResponse struct {
	OrderID           int64           `json:"order_id"`
	OrderNumber       string          `json:"order_number"`
	OrderStatus       string          `json:"order_status"`
	PaymentStatus     string          `json:"payment_status"`
	PaymentMethod     string          `json:"payment_method"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	RazorpayOrderID   *string         `json:"razorpay_order_id"`
	RazorpayPaymentID *string         `json:"razorpay_payment_id"`
	GatewayStatus     *string         `json:"gateway_status"`
}
