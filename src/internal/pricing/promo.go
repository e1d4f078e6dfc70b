package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Promo struct {
	Code                 string
	DiscountType         string
	DiscountValue        decimal.Decimal
	MaxDiscountAmount    decimal.NullDecimal
	MinOrderAmount       decimal.NullDecimal
	MaxUses              *int
	CurrentUses          int
	MaxUsesPerUser       int
	ApplicableToProducts bool
	ApplicableToPujas    bool
	ValidFrom            *time.Time
	ValidUntil           *time.Time
	IsActive             bool
}

type PromoContext struct {
	Amount       decimal.Decimal
	ProductOrder bool
	UserUses     int
	Now          time.Time
}

// PromoError carries the customer facing reason a code was rejected.
type PromoError struct {
	Reason string
}

func (e *PromoError) Error() string {
	return e.Reason
}

func reject(format string, args ...interface{}) (decimal.Decimal, error) {
	return decimal.Zero, &PromoError{Reason: fmt.Sprintf(format, args...)}
}

// EvaluatePromo checks the promo against the order context and returns the discount.
func EvaluatePromo(p Promo, ctx PromoContext) (decimal.Decimal, error) {
	if !p.IsActive {
		return reject("Invalid promo code")
	}
	if ctx.ProductOrder && !p.ApplicableToProducts {
		return reject("This promo code is not applicable to product orders")
	}
	if !ctx.ProductOrder && !p.ApplicableToPujas {
		return reject("This promo code is not applicable to puja bookings")
	}

	now := ctx.Now
	if now.IsZero() {
		now = time.Now()
	}
	if p.ValidFrom != nil && now.Before(*p.ValidFrom) {
		return reject("This promo code is not yet valid")
	}
	if p.ValidUntil != nil && now.After(*p.ValidUntil) {
		return reject("This promo code has expired")
	}
	if p.MaxUses != nil && p.CurrentUses >= *p.MaxUses {
		return reject("This promo code has reached its usage limit")
	}
	if p.MaxUsesPerUser > 0 && ctx.UserUses >= p.MaxUsesPerUser {
		return reject("You have already used this promo code")
	}
	if p.MinOrderAmount.Valid && ctx.Amount.LessThan(p.MinOrderAmount.Decimal) {
		return reject("Minimum order amount of ₹%s required", p.MinOrderAmount.Decimal.StringFixed(2))
	}

	var discount decimal.Decimal
	switch p.DiscountType {
	case DiscountPercentage:
		discount = ctx.Amount.Mul(p.DiscountValue).Div(hundred).Round(2)
		if p.MaxDiscountAmount.Valid && discount.GreaterThan(p.MaxDiscountAmount.Decimal) {
			discount = p.MaxDiscountAmount.Decimal
		}
	case DiscountFixed:
		discount = p.DiscountValue
	default:
		return reject("Invalid promo code")
	}

	return clampDiscount(discount, ctx.Amount), nil
}
