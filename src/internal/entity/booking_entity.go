package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

type Booking struct {
	ID             int64           `db:"id" json:"id"`
	UserID         int64           `db:"user_id" json:"user_id"`
	PujaID         *int64          `db:"puja_id" json:"puja_id"`
	TempleID       *int64          `db:"temple_id" json:"temple_id"`
	PlanID         *int64          `db:"plan_id" json:"plan_id"`
	Status         string          `db:"status" json:"status"`
	MobileNumber   *string         `db:"mobile_number" json:"mobile_number"`
	WhatsappNumber *string         `db:"whatsapp_number" json:"whatsapp_number"`
	Gotra          *string         `db:"gotra" json:"gotra"`
	PujaLink       *string         `db:"puja_link" json:"puja_link"`
	TotalAmount    decimal.Decimal `db:"total_amount" json:"total_amount"`
	BookingDate    time.Time       `db:"booking_date" json:"booking_date"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`

	Chadawas []BookingChadawa `db:"-" json:"chadawas"`
}

// TempleOnly bookings are priced without the plan.
func (b *Booking) TempleOnly() bool {
	return b.TempleID != nil && b.PujaID == nil
}

func (b *Booking) Closed() bool {
	return b.Status == BookingCancelled || b.Status == BookingCompleted
}

type BookingChadawa struct {
	ID        int64           `db:"id" json:"id"`
	BookingID int64           `db:"booking_id" json:"booking_id"`
	ChadawaID int64           `db:"chadawa_id" json:"chadawa_id"`
	Name      string          `db:"name" json:"name"`
	Note      *string         `db:"note" json:"note"`
	Price     decimal.Decimal `db:"price" json:"price"`
}

type BookingFilter struct {
	UserID *int64
	Status *string
	Skip   int
	Limit  int
}
