package model

import (
	"kotidham-service/src/internal/entity"
)

type BookingChadawaRequest struct {
	ChadawaID int64   `json:"chadawa_id" validate:"required,gt=0"`
	Note      *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

type CreateBookingRequest struct {
	PujaID         *int64                  `json:"puja_id,omitempty" validate:"omitempty,gt=0"`
	TempleID       *int64                  `json:"temple_id,omitempty" validate:"omitempty,gt=0"`
	PlanID         *int64                  `json:"plan_id,omitempty" validate:"omitempty,gt=0"`
	MobileNumber   *string                 `json:"mobile_number,omitempty" validate:"omitempty,max=30"`
	WhatsappNumber *string                 `json:"whatsapp_number,omitempty" validate:"omitempty,max=30"`
	Gotra          *string                 `json:"gotra,omitempty" validate:"omitempty,max=100"`
	Chadawas       []BookingChadawaRequest `json:"chadawas" validate:"omitempty,dive"`
}

type CompleteBookingRequest struct {
	PujaLink string `json:"puja_link" query:"puja_link" form:"puja_link" validate:"required,url"`
}

// BookingPatch lists the fields an admin may change on a booking.
type BookingPatch struct {
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	PujaLink *string `json:"puja_link,omitempty" validate:"omitempty,max=1000"`
}

func (p BookingPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.PujaLink != nil {
		cols["puja_link"] = *p.PujaLink
	}
	return cols
}

type CheckoutResponse struct {
	Booking *entity.Booking       `json:"booking"`
	Payment *GatewayOrderResponse `json:"payment"`
}
