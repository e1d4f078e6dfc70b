package converter

import (
	"time"

	"kotidham-service/src/internal/entity"
	"kotidham-service/src/internal/model"
	"kotidham-service/src/internal/pricing"

	"github.com/google/uuid"
)

func PaymentToGatewayResponse(payment *entity.Payment, keyID string) *model.GatewayOrderResponse {
	return &model.GatewayOrderResponse{
		PaymentID:       payment.ID,
		ReferenceID:     payment.ReferenceID,
		RazorpayOrderID: payment.GatewayOrderID,
		Amount:          payment.Amount,
		AmountMinor:     pricing.ToMinorUnits(payment.Amount),
		Currency:        payment.Currency,
		Status:          payment.Status,
		KeyID:           keyID,
	}
}

func PaymentToEvent(payment *entity.Payment, kind, eventType string) *model.PaymentEvent {
	event := &model.PaymentEvent{
		ID:             uuid.NewString(),
		Type:           eventType,
		ReferenceKind:  kind,
		ReferenceID:    payment.ReferenceID,
		PaymentID:      payment.ID,
		GatewayOrderID: payment.GatewayOrderID,
		Amount:         payment.Amount.StringFixed(2),
		Currency:       payment.Currency,
		Status:         payment.Status,
		OccurredAt:     time.Now().UTC(),
	}
	if payment.GatewayPaymentID != nil {
		event.GatewayPaymentID = *payment.GatewayPaymentID
	}
	return event
}

func OrderToPaymentStatus(order *entity.Order, payment *entity.Payment) *model.OrderPaymentStatusResponse {
	resp := &model.OrderPaymentStatusResponse{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		OrderStatus:   order.Status,
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		TotalAmount:   order.TotalAmount,
	}
	if payment != nil {
		resp.RazorpayOrderID = &payment.GatewayOrderID
		resp.RazorpayPaymentID = payment.GatewayPaymentID
		resp.GatewayStatus = &payment.Status
	}
	return resp
}
