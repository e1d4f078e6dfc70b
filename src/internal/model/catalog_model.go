package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CreatePujaRequest struct {
	Name        string  `json:"name" validate:"required,max=150"`
	SubHeading  string  `json:"sub_heading" validate:"required,max=255"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type PujaPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=150"`
	SubHeading  *string `json:"sub_heading,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (p PujaPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "name", p.Name)
	setString(cols, "sub_heading", p.SubHeading)
	setString(cols, "description", p.Description)
	setString(cols, "location", p.Location)
	setString(cols, "category", p.Category)
	setBool(cols, "is_active", p.IsActive)
	return cols
}

type CreateTempleRequest struct {
	Name        string  `json:"name" validate:"required,max=150"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type TemplePatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=150"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (p TemplePatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "name", p.Name)
	setString(cols, "description", p.Description)
	setString(cols, "location", p.Location)
	setBool(cols, "is_active", p.IsActive)
	return cols
}

type CreatePlanRequest struct {
	Name            string              `json:"name" validate:"required,max=100"`
	Description     *string             `json:"description,omitempty"`
	ActualPrice     decimal.Decimal     `json:"actual_price"`
	DiscountedPrice decimal.NullDecimal `json:"discounted_price"`
}

type PlanPatch struct {
	Name                 *string          `json:"name,omitempty" validate:"omitempty,max=100"`
	Description          *string          `json:"description,omitempty"`
	ActualPrice          *decimal.Decimal `json:"actual_price,omitempty"`
	DiscountedPrice      *decimal.Decimal `json:"discounted_price,omitempty"`
	ClearDiscountedPrice bool             `json:"clear_discounted_price,omitempty"`
}

func (p PlanPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "name", p.Name)
	setString(cols, "description", p.Description)
	setDecimal(cols, "actual_price", p.ActualPrice)
	setDecimal(cols, "discounted_price", p.DiscountedPrice)
	if p.ClearDiscountedPrice {
		cols["discounted_price"] = nil
	}
	return cols
}

func (p PlanPatch) Prices() []*decimal.Decimal {
	return []*decimal.Decimal{p.ActualPrice, p.DiscountedPrice}
}

type CreateChadawaRequest struct {
	Name         string          `json:"name" validate:"required,max=100"`
	Description  *string         `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	RequiresNote bool            `json:"requires_note"`
}

type ChadawaPatch struct {
	Name         *string          `json:"name,omitempty" validate:"omitempty,max=100"`
	Description  *string          `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	RequiresNote *bool            `json:"requires_note,omitempty"`
}

func (p ChadawaPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "name", p.Name)
	setString(cols, "description", p.Description)
	setDecimal(cols, "price", p.Price)
	setBool(cols, "requires_note", p.RequiresNote)
	return cols
}

func (p ChadawaPatch) Prices() []*decimal.Decimal {
	return []*decimal.Decimal{p.Price}
}

type CreateProductRequest struct {
	Name              string              `json:"name" validate:"required,max=200"`
	Description       *string             `json:"description,omitempty"`
	SellingPrice      decimal.Decimal     `json:"selling_price"`
	ActualPrice       decimal.Decimal     `json:"actual_price"`
	StockQuantity     int                 `json:"stock_quantity" validate:"gte=0"`
	ShippingCharge    decimal.Decimal     `json:"shipping_charge"`
	FreeShippingAbove decimal.NullDecimal `json:"free_shipping_above"`
	AllowCOD          bool                `json:"allow_cod"`
	IsActive          *bool               `json:"is_active,omitempty"`
}

type ProductPatch struct {
	Name                   *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Description            *string          `json:"description,omitempty"`
	SellingPrice           *decimal.Decimal `json:"selling_price,omitempty"`
	ActualPrice            *decimal.Decimal `json:"actual_price,omitempty"`
	StockQuantity          *int             `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	ShippingCharge         *decimal.Decimal `json:"shipping_charge,omitempty"`
	FreeShippingAbove      *decimal.Decimal `json:"free_shipping_above,omitempty"`
	ClearFreeShippingAbove bool             `json:"clear_free_shipping_above,omitempty"`
	AllowCOD               *bool            `json:"allow_cod,omitempty"`
	IsActive               *bool            `json:"is_active,omitempty"`
}

func (p ProductPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	setString(cols, "name", p.Name)
	setString(cols, "description", p.Description)
	setDecimal(cols, "selling_price", p.SellingPrice)
	setDecimal(cols, "actual_price", p.ActualPrice)
	if p.StockQuantity != nil {
		cols["stock_quantity"] = *p.StockQuantity
	}
	setDecimal(cols, "shipping_charge", p.ShippingCharge)
	setDecimal(cols, "free_shipping_above", p.FreeShippingAbove)
	if p.ClearFreeShippingAbove {
		cols["free_shipping_above"] = nil
	}
	setBool(cols, "allow_cod", p.AllowCOD)
	setBool(cols, "is_active", p.IsActive)
	return cols
}

func (p ProductPatch) Prices() []*decimal.Decimal {
	return []*decimal.Decimal{p.SellingPrice, p.ActualPrice, p.ShippingCharge, p.FreeShippingAbove}
}

type CreatePromoCodeRequest struct {
	Code                 string              `json:"code" validate:"required,max=50"`
	Description          *string             `json:"description,omitempty"`
	DiscountType         string              `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue        decimal.Decimal     `json:"discount_value"`
	MaxDiscountAmount    decimal.NullDecimal `json:"max_discount_amount"`
	MinOrderAmount       decimal.NullDecimal `json:"min_order_amount"`
	MaxUses              *int                `json:"max_uses,omitempty" validate:"omitempty,gt=0"`
	MaxUsesPerUser       int                 `json:"max_uses_per_user" validate:"gte=0"`
	ApplicableToProducts bool                `json:"applicable_to_products"`
	ApplicableToPujas    bool                `json:"applicable_to_pujas"`
	ValidFrom            *time.Time          `json:"valid_from,omitempty"`
	ValidUntil           *time.Time          `json:"valid_until,omitempty" validate:"omitempty,gtfield=ValidFrom"`
	IsActive             *bool               `json:"is_active,omitempty"`
}

type PromoCodePatch struct {
	Code                 *string          `json:"code,omitempty" validate:"omitempty,max=50"`
	Description          *string          `json:"description,omitempty"`
	DiscountType         *string          `json:"discount_type,omitempty" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue        *decimal.Decimal `json:"discount_value,omitempty"`
	MaxDiscountAmount    *decimal.Decimal `json:"max_discount_amount,omitempty"`
	MinOrderAmount       *decimal.Decimal `json:"min_order_amount,omitempty"`
	MaxUses              *int             `json:"max_uses,omitempty" validate:"omitempty,gt=0"`
	MaxUsesPerUser       *int             `json:"max_uses_per_user,omitempty" validate:"omitempty,gte=0"`
	ApplicableToProducts *bool            `json:"applicable_to_products,omitempty"`
	ApplicableToPujas    *bool            `json:"applicable_to_pujas,omitempty"`
	ValidFrom            *time.Time       `json:"valid_from,omitempty"`
	ValidUntil           *time.Time       `json:"valid_until,omitempty"`
	IsActive             *bool            `json:"is_active,omitempty"`
}

func (p PromoCodePatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Code != nil {
		cols["code"] = strings.ToUpper(strings.TrimSpace(*p.Code))
	}
	setString(cols, "description", p.Description)
	setString(cols, "discount_type", p.DiscountType)
	setDecimal(cols, "discount_value", p.DiscountValue)
	setDecimal(cols, "max_discount_amount", p.MaxDiscountAmount)
	setDecimal(cols, "min_order_amount", p.MinOrderAmount)
	if p.MaxUses != nil {
		cols["max_uses"] = *p.MaxUses
	}
	if p.MaxUsesPerUser != nil {
		cols["max_uses_per_user"] = *p.MaxUsesPerUser
	}
	setBool(cols, "applicable_to_products", p.ApplicableToProducts)
	setBool(cols, "applicable_to_pujas", p.ApplicableToPujas)
	if p.ValidFrom != nil {
		cols["valid_from"] = p.ValidFrom.UTC()
	}
	if p.ValidUntil != nil {
		cols["valid_until"] = p.ValidUntil.UTC()
	}
	setBool(cols, "is_active", p.IsActive)
	return cols
}

func (p PromoCodePatch) Prices() []*decimal.Decimal {
	return []*decimal.Decimal{p.DiscountValue, p.MaxDiscountAmount, p.MinOrderAmount}
}

type ValidatePromoRequest struct {
	Code           string          `json:"code" validate:"required,max=50"`
	Amount         decimal.Decimal `json:"amount"`
	IsProductOrder bool            `json:"is_product_order"`
}

type ValidatePromoResponse struct {
	Valid          bool            `json:"valid"`
	Message        string          `json:"message"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
}

func setString(cols map[string]interface{}, column string, v *string) {
	if v != nil {
		cols[column] = *v
	}
}

func setBool(cols map[string]interface{}, column string, v *bool) {
	if v != nil {
		cols[column] = *v
	}
}

func setDecimal(cols map[string]interface{}, column string, v *decimal.Decimal) {
	if v != nil {
		cols[column] = *v
	}
}
