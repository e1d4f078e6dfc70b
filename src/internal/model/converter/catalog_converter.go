package converter

import (
	"strings"

	"kotidham-service/src/internal/entity"
	"kotidham-service/src/internal/model"
	"kotidham-service/src/internal/pricing"
)

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func PujaFromRequest(req *model.CreatePujaRequest) *entity.Puja {
	return &entity.Puja{
		Name:        req.Name,
		SubHeading:  req.SubHeading,
		Description: req.Description,
		Location:    req.Location,
		Category:    req.Category,
		IsActive:    boolOr(req.IsActive, true),
	}
}

func TempleFromRequest(req *model.CreateTempleRequest) *entity.Temple {
	return &entity.Temple{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		IsActive:    boolOr(req.IsActive, true),
	}
}

func PlanFromRequest(req *model.CreatePlanRequest) *entity.Plan {
	return &entity.Plan{
		Name:            req.Name,
		Description:     req.Description,
		ActualPrice:     req.ActualPrice.Round(2),
		DiscountedPrice: req.DiscountedPrice,
	}
}

func ChadawaFromRequest(req *model.CreateChadawaRequest) *entity.Chadawa {
	return &entity.Chadawa{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price.Round(2),
		RequiresNote: req.RequiresNote,
	}
}

func ProductFromRequest(req *model.CreateProductRequest) *entity.Product {
	return &entity.Product{
		Name:              req.Name,
		Description:       req.Description,
		SellingPrice:      req.SellingPrice.Round(2),
		ActualPrice:       req.ActualPrice.Round(2),
		StockQuantity:     req.StockQuantity,
		ShippingCharge:    req.ShippingCharge.Round(2),
		FreeShippingAbove: req.FreeShippingAbove,
		AllowCOD:          req.AllowCOD,
		IsActive:          boolOr(req.IsActive, true),
	}
}

func PromoCodeFromRequest(req *model.CreatePromoCodeRequest) *entity.PromoCode {
	return &entity.PromoCode{
		Code:                 strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:          req.Description,
		DiscountType:         req.DiscountType,
		DiscountValue:        req.DiscountValue,
		MaxDiscountAmount:    req.MaxDiscountAmount,
		MinOrderAmount:       req.MinOrderAmount,
		MaxUses:              req.MaxUses,
		MaxUsesPerUser:       req.MaxUsesPerUser,
		ApplicableToProducts: req.ApplicableToProducts,
		ApplicableToPujas:    req.ApplicableToPujas,
		ValidFrom:            req.ValidFrom,
		ValidUntil:           req.ValidUntil,
		IsActive:             boolOr(req.IsActive, true),
	}
}

func PromoCodeToPricing(p *entity.PromoCode) pricing.Promo {
	return pricing.Promo{
		Code:                 p.Code,
		DiscountType:         p.DiscountType,
		DiscountValue:        p.DiscountValue,
		MaxDiscountAmount:    p.MaxDiscountAmount,
		MinOrderAmount:       p.MinOrderAmount,
		MaxUses:              p.MaxUses,
		CurrentUses:          p.CurrentUses,
		MaxUsesPerUser:       p.MaxUsesPerUser,
		ApplicableToProducts: p.ApplicableToProducts,
		ApplicableToPujas:    p.ApplicableToPujas,
		ValidFrom:            p.ValidFrom,
		ValidUntil:           p.ValidUntil,
		IsActive:             p.IsActive,
	}
}

func PlanToPricing(p *entity.Plan) *pricing.PlanPrice {
	return &pricing.PlanPrice{
		Actual:     p.ActualPrice,
		Discounted: p.DiscountedPrice,
	}
}

func ProductToLine(p *entity.Product, quantity int) pricing.Line {
	return pricing.Line{
		ProductID:         p.ID,
		Name:              p.Name,
		UnitPrice:         p.SellingPrice,
		Quantity:          quantity,
		ShippingCharge:    p.ShippingCharge,
		FreeShippingAbove: p.FreeShippingAbove,
	}
}
