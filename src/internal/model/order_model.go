package model

type OrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0,lte=100"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingName    string             `json:"shipping_name" validate:"required,max=100"`
	ShippingPhone   string             `json:"shipping_phone" validate:"required,max=20"`
	ShippingEmail   *string            `json:"shipping_email,omitempty" validate:"omitempty,email"`
	ShippingAddress string             `json:"shipping_address" validate:"required"`
	ShippingCity    string             `json:"shipping_city" validate:"required,max=100"`
	ShippingState   string             `json:"shipping_state" validate:"required,max=100"`
	ShippingPincode string             `json:"shipping_pincode" validate:"required,max=10"`
	PaymentMethod   string             `json:"payment_method" validate:"required,oneof=online cod"`
	PromoCode       *string            `json:"promo_code,omitempty" validate:"omitempty,max=50"`
	Notes           *string            `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type OrderListRequest struct {
	Status        string `query:"status" validate:"omitempty,oneof=pending confirmed processing shipped delivered cancelled"`
	PaymentStatus string `query:"payment_status" validate:"omitempty,oneof=pending success failed"`
	Skip          int    `query:"skip"`
	Limit         int    `query:"limit"`
}

// OrderPatch lists the fields an admin may change on an order.
type OrderPatch struct {
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed processing shipped delivered cancelled"`
	PaymentStatus *string `json:"payment_status,omitempty" validate:"omitempty,oneof=pending success failed"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func (p OrderPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.PaymentStatus != nil {
		cols["payment_status"] = *p.PaymentStatus
	}
	if p.Notes != nil {
		cols["notes"] = *p.Notes
	}
	return cols
}
