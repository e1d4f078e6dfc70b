// Package pricing computes authoritative booking and order amounts from stored catalog prices.
package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type PlanPrice struct {
	Actual     decimal.Decimal
	Discounted decimal.NullDecimal
}

// Effective prefers the discounted price when one is set and non-zero.
func (p PlanPrice) Effective() decimal.Decimal {
	if p.Discounted.Valid && p.Discounted.Decimal.IsPositive() {
		return p.Discounted.Decimal
	}
	return p.Actual
}

type BookingInput struct {
	TempleOnly bool
	Plan       *PlanPrice
	Chadawas   []decimal.Decimal
}

// BookingTotal sums the plan price and every add-on. Temple-only bookings skip the plan.
func BookingTotal(in BookingInput) decimal.Decimal {
	total := decimal.Zero
	if !in.TempleOnly && in.Plan != nil {
		total = total.Add(in.Plan.Effective())
	}
	for _, c := range in.Chadawas {
		total = total.Add(c)
	}
	return total.Round(2)
}

type Line struct {
	ProductID         int64
	Name              string
	UnitPrice         decimal.Decimal
	Quantity          int
	ShippingCharge    decimal.Decimal
	FreeShippingAbove decimal.NullDecimal
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type QuoteLine struct {
	Line
	LineTotal decimal.Decimal
	Shipping  decimal.Decimal
}

type Quote struct {
	Lines    []QuoteLine
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

func Subtotal(lines []Line) decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}
	return subtotal
}

// QuoteOrder prices product lines. A line ships free when its product's threshold is
// met by the order subtotal; otherwise it pays shipping_charge per unit.
func QuoteOrder(lines []Line, discount decimal.Decimal) Quote {
	q := Quote{
		Lines:    make([]QuoteLine, 0, len(lines)),
		Subtotal: Subtotal(lines),
		Shipping: decimal.Zero,
		Tax:      decimal.Zero,
	}

	for _, l := range lines {
		shipping := decimal.Zero
		free := l.FreeShippingAbove.Valid && q.Subtotal.GreaterThanOrEqual(l.FreeShippingAbove.Decimal)
		if !free {
			shipping = l.ShippingCharge.Mul(decimal.NewFromInt(int64(l.Quantity)))
		}
		q.Shipping = q.Shipping.Add(shipping)
		q.Lines = append(q.Lines, QuoteLine{Line: l, LineTotal: l.Total(), Shipping: shipping})
	}

	q.Discount = clampDiscount(discount, q.Subtotal)
	q.Total = q.Subtotal.Sub(q.Discount).Add(q.Shipping).Add(q.Tax).Round(2)
	return q
}

func clampDiscount(discount, subtotal decimal.Decimal) decimal.Decimal {
	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

// ToMinorUnits converts a rupee amount to paise.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Mul(hundred).IntPart()
}
