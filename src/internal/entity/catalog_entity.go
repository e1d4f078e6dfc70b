package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Puja struct {
	ID          int64     `db:"id" gorm:"primaryKey" json:"id"`
	Name        string    `db:"name" json:"name"`
	SubHeading  string    `db:"sub_heading" json:"sub_heading"`
	Description *string   `db:"description" json:"description"`
	Location    *string   `db:"location" json:"location"`
	Category    *string   `db:"category" json:"category"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Temple struct {
	ID          int64     `db:"id" gorm:"primaryKey" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	Location    *string   `db:"location" json:"location"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Plan struct {
	ID              int64               `db:"id" gorm:"primaryKey" json:"id"`
	Name            string              `db:"name" json:"name"`
	Description     *string             `db:"description" json:"description"`
	ActualPrice     decimal.Decimal     `db:"actual_price" gorm:"type:decimal(10,2)" json:"actual_price"`
	DiscountedPrice decimal.NullDecimal `db:"discounted_price" gorm:"type:decimal(10,2)" json:"discounted_price"`
	CreatedAt       time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `db:"updated_at" json:"updated_at"`
}

type Chadawa struct {
	ID           int64           `db:"id" gorm:"primaryKey" json:"id"`
	Name         string          `db:"name" json:"name"`
	Description  *string         `db:"description" json:"description"`
	Price        decimal.Decimal `db:"price" gorm:"type:decimal(10,2)" json:"price"`
	RequiresNote bool            `db:"requires_note" json:"requires_note"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

type Product struct {
	ID                int64               `db:"id" gorm:"primaryKey" json:"id"`
	Name              string              `db:"name" json:"name"`
	Description       *string             `db:"description" json:"description"`
	SellingPrice      decimal.Decimal     `db:"selling_price" gorm:"type:decimal(10,2)" json:"selling_price"`
	ActualPrice       decimal.Decimal     `db:"actual_price" gorm:"type:decimal(10,2)" json:"actual_price"`
	StockQuantity     int                 `db:"stock_quantity" json:"stock_quantity"`
	TotalSales        int                 `db:"total_sales" json:"total_sales"`
	ShippingCharge    decimal.Decimal     `db:"shipping_charge" gorm:"type:decimal(10,2)" json:"shipping_charge"`
	FreeShippingAbove decimal.NullDecimal `db:"free_shipping_above" gorm:"type:decimal(10,2)" json:"free_shipping_above"`
	AllowCOD          bool                `db:"allow_cod" gorm:"column:allow_cod" json:"allow_cod"`
	IsActive          bool                `db:"is_active" json:"is_active"`
	CreatedAt         time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time           `db:"updated_at" json:"updated_at"`
}

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type PromoCode struct {
	ID                   int64               `db:"id" gorm:"primaryKey" json:"id"`
	Code                 string              `db:"code" json:"code"`
	Description          *string             `db:"description" json:"description"`
	DiscountType         string              `db:"discount_type" json:"discount_type"`
	DiscountValue        decimal.Decimal     `db:"discount_value" gorm:"type:decimal(10,2)" json:"discount_value"`
	MaxDiscountAmount    decimal.NullDecimal `db:"max_discount_amount" gorm:"type:decimal(10,2)" json:"max_discount_amount"`
	MinOrderAmount       decimal.NullDecimal `db:"min_order_amount" gorm:"type:decimal(10,2)" json:"min_order_amount"`
	MaxUses              *int                `db:"max_uses" json:"max_uses"`
	CurrentUses          int                 `db:"current_uses" json:"current_uses"`
	MaxUsesPerUser       int                 `db:"max_uses_per_user" json:"max_uses_per_user"`
	ApplicableToProducts bool                `db:"applicable_to_products" json:"applicable_to_products"`
	ApplicableToPujas    bool                `db:"applicable_to_pujas" json:"applicable_to_pujas"`
	ValidFrom            *time.Time          `db:"valid_from" json:"valid_from"`
	ValidUntil           *time.Time          `db:"valid_until" json:"valid_until"`
	IsActive             bool                `db:"is_active" json:"is_active"`
	CreatedAt            time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time           `db:"updated_at" json:"updated_at"`
}
