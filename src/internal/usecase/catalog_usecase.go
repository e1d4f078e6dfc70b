package usecase

import (
	"context"
	"errors"

	"kotidham-service/src/internal/model"
	"kotidham-service/src/internal/model/converter"
	"kotidham-service/src/internal/pricing"
	"kotidham-service/src/internal/repository"
	httpError "kotidham-service/src/pkg/http-error"
	"kotidham-service/src/pkg/log"
	"kotidham-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CatalogUseCase struct {
	Log               log.Log
	Validate          *validator.Validate
	CatalogRepository *repository.CatalogRepository
	OrderRepository   *repository.OrderRepository
}

func NewCatalogUseCase(
	logger log.Log,
	validate *validator.Validate,
	catalogRepository *repository.CatalogRepository,
	orderRepository *repository.OrderRepository,
) *CatalogUseCase {
	return &CatalogUseCase{
		Log:               logger,
		Validate:          validate,
		CatalogRepository: catalogRepository,
		OrderRepository:   orderRepository,
	}
}

// check validates the request and rejects negative money fields.
func (c *CatalogUseCase) check(scope string, request interface{}, prices ...*decimal.Decimal) *utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("catalog-usecase", err.Error(), scope, utils.ConvertString(request))
		res := validationFailure(err)
		return &res
	}
	for _, p := range prices {
		if p != nil && p.IsNegative() {
			res := failure(httpError.NewBadRequest(), "validation error: prices must not be negative")
			return &res
		}
	}
	return nil
}

func (c *CatalogUseCase) done(scope, notFoundMessage string, data interface{}, err error) utils.Result {
	if err != nil {
		c.Log.Error("catalog-usecase", err.Error(), scope, "")
		return repositoryFailure(err, notFoundMessage)
	}
	return utils.Result{Data: data}
}

func nullPrices(values ...decimal.NullDecimal) []*decimal.Decimal {
	out := make([]*decimal.Decimal, 0, len(values))
	for i := range values {
		if values[i].Valid {
			out = append(out, &values[i].Decimal)
		}
	}
	return out
}

func (c *CatalogUseCase) CreatePuja(ctx context.Context, request *model.CreatePujaRequest) utils.Result {
	if res := c.check("CreatePuja", request); res != nil {
		return *res
	}
	puja := converter.PujaFromRequest(request)
	return c.done("CreatePuja", "Puja not found", puja, c.CatalogRepository.CreatePuja(ctx, puja))
}

func (c *CatalogUseCase) GetPuja(ctx context.Context, id int64) utils.Result {
	puja, err := c.CatalogRepository.FindPuja(ctx, id)
	return c.done("GetPuja", "Puja not found", puja, err)
}

func (c *CatalogUseCase) ListPujas(ctx context.Context, activeOnly bool, paging model.Paging) utils.Result {
	pujas, err := c.CatalogRepository.ListPujas(ctx, activeOnly, paging.Skip, paging.Limit)
	return c.done("ListPujas", "", pujas, err)
}

func (c *CatalogUseCase) UpdatePuja(ctx context.Context, id int64, patch *model.PujaPatch) utils.Result {
	if res := c.check("UpdatePuja", patch); res != nil {
		return *res
	}
	puja, err := c.CatalogRepository.UpdatePuja(ctx, id, patch.Columns())
	return c.done("UpdatePuja", "Puja not found", puja, err)
}

func (c *CatalogUseCase) DeletePuja(ctx context.Context, id int64) utils.Result {
	err := c.CatalogRepository.DeletePuja(ctx, id)
	return c.done("DeletePuja", "Puja not found", map[string]string{"message": "Puja deleted successfully"}, err)
}

func (c *CatalogUseCase) CreateTemple(ctx context.Context, request *model.CreateTempleRequest) utils.Result {
	if res := c.check("CreateTemple", request); res != nil {
		return *res
	}
	temple := converter.TempleFromRequest(request)
	return c.done("CreateTemple", "Temple not found", temple, c.CatalogRepository.CreateTemple(ctx, temple))
}

func (c *CatalogUseCase) GetTemple(ctx context.Context, id int64) utils.Result {
	temple, err := c.CatalogRepository.FindTemple(ctx, id)
	return c.done("GetTemple", "Temple not found", temple, err)
}

func (c *CatalogUseCase) ListTemples(ctx context.Context, activeOnly bool, paging model.Paging) utils.Result {
	temples, err := c.CatalogRepository.ListTemples(ctx, activeOnly, paging.Skip, paging.Limit)
	return c.done("ListTemples", "", temples, err)
}

func (c *CatalogUseCase) UpdateTemple(ctx context.Context, id int64, patch *model.TemplePatch) utils.Result {
	if res := c.check("UpdateTemple", patch); res != nil {
		return *res
	}
	temple, err := c.CatalogRepository.UpdateTemple(ctx, id, patch.Columns())
	return c.done("UpdateTemple", "Temple not found", temple, err)
}

func (c *CatalogUseCase) DeleteTemple(ctx context.Context, id int64) utils.Result {
	err := c.CatalogRepository.DeleteTemple(ctx, id)
	return c.done("DeleteTemple", "Temple not found", map[string]string{"message": "Temple deleted successfully"}, err)
}

func (c *CatalogUseCase) CreatePlan(ctx context.Context, request *model.CreatePlanRequest) utils.Result {
	prices := append([]*decimal.Decimal{&request.ActualPrice}, nullPrices(request.DiscountedPrice)...)
	if res := c.check("CreatePlan", request, prices...); res != nil {
		return *res
	}
	plan := converter.PlanFromRequest(request)
	return c.done("CreatePlan", "Plan not found", plan, c.CatalogRepository.CreatePlan(ctx, plan))
}

func (c *CatalogUseCase) GetPlan(ctx context.Context, id int64) utils.Result {
	plan, err := c.CatalogRepository.FindPlan(ctx, id)
	return c.done("GetPlan", "Plan not found", plan, err)
}

func (c *CatalogUseCase) ListPlans(ctx context.Context, paging model.Paging) utils.Result {
	plans, err := c.CatalogRepository.ListPlans(ctx, paging.Skip, paging.Limit)
	return c.done("ListPlans", "", plans, err)
}

func (c *CatalogUseCase) UpdatePlan(ctx context.Context, id int64, patch *model.PlanPatch) utils.Result {
	if res := c.check("UpdatePlan", patch, patch.Prices()...); res != nil {
		return *res
	}
	plan, err := c.CatalogRepository.UpdatePlan(ctx, id, patch.Columns())
	return c.done("UpdatePlan", "Plan not found", plan, err)
}

func (c *CatalogUseCase) DeletePlan(ctx context.Context, id int64) utils.Result {
	err := c.CatalogRepository.DeletePlan(ctx, id)
	return c.done("DeletePlan", "Plan not found", map[string]string{"message": "Plan deleted successfully"}, err)
}

func (c *CatalogUseCase) CreateChadawa(ctx context.Context, request *model.CreateChadawaRequest) utils.Result {
	if res := c.check("CreateChadawa", request, &request.Price); res != nil {
		return *res
	}
	chadawa := converter.ChadawaFromRequest(request)
	return c.done("CreateChadawa", "Chadawa not found", chadawa, c.CatalogRepository.CreateChadawa(ctx, chadawa))
}

func (c *CatalogUseCase) GetChadawa(ctx context.Context, id int64) utils.Result {
	chadawa, err := c.CatalogRepository.FindChadawa(ctx, id)
	return c.done("GetChadawa", "Chadawa not found", chadawa, err)
}

func (c *CatalogUseCase) ListChadawas(ctx context.Context, paging model.Paging) utils.Result {
	chadawas, err := c.CatalogRepository.ListChadawas(ctx, paging.Skip, paging.Limit)
	return c.done("ListChadawas", "", chadawas, err)
}

func (c *CatalogUseCase) UpdateChadawa(ctx context.Context, id int64, patch *model.ChadawaPatch) utils.Result {
	if res := c.check("UpdateChadawa", patch, patch.Prices()...); res != nil {
		return *res
	}
	chadawa, err := c.CatalogRepository.UpdateChadawa(ctx, id, patch.Columns())
	return c.done("UpdateChadawa", "Chadawa not found", chadawa, err)
}

func (c *CatalogUseCase) DeleteChadawa(ctx context.Context, id int64) utils.Result {
	err := c.CatalogRepository.DeleteChadawa(ctx, id)
	return c.done("DeleteChadawa", "Chadawa not found", map[string]string{"message": "Chadawa deleted successfully"}, err)
}

func (c *CatalogUseCase) CreateProduct(ctx context.Context, request *model.CreateProductRequest) utils.Result {
	prices := append([]*decimal.Decimal{&request.SellingPrice, &request.ActualPrice, &request.ShippingCharge},
		nullPrices(request.FreeShippingAbove)...)
	if res := c.check("CreateProduct", request, prices...); res != nil {
		return *res
	}
	product := converter.ProductFromRequest(request)
	return c.done("CreateProduct", "Product not found", product, c.CatalogRepository.CreateProduct(ctx, product))
}

// GetProduct hides inactive products unless includeInactive is set.
func (c *CatalogUseCase) GetProduct(ctx context.Context, id int64, includeInactive bool) utils.Result {
	product, err := c.CatalogRepository.FindProduct(ctx, id)
	if err == nil && !includeInactive && !product.IsActive {
		err = repository.ErrNotFound
	}
	return c.done("GetProduct", "Product not found", product, err)
}

func (c *CatalogUseCase) ListProducts(ctx context.Context, activeOnly bool, paging model.Paging) utils.Result {
	products, err := c.CatalogRepository.ListProducts(ctx, activeOnly, paging.Skip, paging.Limit)
	return c.done("ListProducts", "", products, err)
}

func (c *CatalogUseCase) UpdateProduct(ctx context.Context, id int64, patch *model.ProductPatch) utils.Result {
	if res := c.check("UpdateProduct", patch, patch.Prices()...); res != nil {
		return *res
	}
	product, err := c.CatalogRepository.UpdateProduct(ctx, id, patch.Columns())
	return c.done("UpdateProduct", "Product not found", product, err)
}

// DeleteProduct removes a product nobody has ordered. Ordered products stay for order history and are deactivated instead.
func (c *CatalogUseCase) DeleteProduct(ctx context.Context, id int64) utils.Result {
	ordered, err := c.OrderRepository.ProductOrdered(ctx, id)
	if err != nil {
		c.Log.Error("catalog-usecase", err.Error(), "DeleteProduct", utils.ConvertString(id))
		return failure(httpError.NewInternalServerError(), err.Error())
	}
	if ordered {
		return failure(httpError.NewConflict(), "Product has been ordered, deactivate it instead")
	}
	err = c.CatalogRepository.DeleteProduct(ctx, id)
	return c.done("DeleteProduct", "Product not found", map[string]string{"message": "Product deleted successfully"}, err)
}

func (c *CatalogUseCase) CreatePromoCode(ctx context.Context, request *model.CreatePromoCodeRequest) utils.Result {
	prices := append([]*decimal.Decimal{&request.DiscountValue}, nullPrices(request.MaxDiscountAmount, request.MinOrderAmount)...)
	if res := c.check("CreatePromoCode", request, prices...); res != nil {
		return *res
	}
	promo := converter.PromoCodeFromRequest(request)
	if res := c.codeTaken(ctx, promo.Code, 0); res != nil {
		return *res
	}
	return c.done("CreatePromoCode", "Promo code not found", promo, c.CatalogRepository.CreatePromoCode(ctx, promo))
}

func (c *CatalogUseCase) codeTaken(ctx context.Context, code string, selfID int64) *utils.Result {
	existing, err := c.CatalogRepository.FindPromoByCode(ctx, code)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		res := failure(httpError.NewInternalServerError(), err.Error())
		return &res
	case existing.ID != selfID:
		res := failure(httpError.NewConflict(), "Promo code with this code already exists")
		return &res
	}
	return nil
}

func (c *CatalogUseCase) GetPromoCode(ctx context.Context, id int64) utils.Result {
	promo, err := c.CatalogRepository.FindPromoCode(ctx, id)
	return c.done("GetPromoCode", "Promo code not found", promo, err)
}

func (c *CatalogUseCase) ListPromoCodes(ctx context.Context, activeOnly bool, paging model.Paging) utils.Result {
	promos, err := c.CatalogRepository.ListPromoCodes(ctx, activeOnly, paging.Skip, paging.Limit)
	return c.done("ListPromoCodes", "", promos, err)
}

func (c *CatalogUseCase) UpdatePromoCode(ctx context.Context, id int64, patch *model.PromoCodePatch) utils.Result {
	if res := c.check("UpdatePromoCode", patch, patch.Prices()...); res != nil {
		return *res
	}
	cols := patch.Columns()
	if code, ok := cols["code"].(string); ok {
		if res := c.codeTaken(ctx, code, id); res != nil {
			return *res
		}
	}
	promo, err := c.CatalogRepository.UpdatePromoCode(ctx, id, cols)
	return c.done("UpdatePromoCode", "Promo code not found", promo, err)
}

func (c *CatalogUseCase) DeletePromoCode(ctx context.Context, id int64) utils.Result {
	err := c.CatalogRepository.DeletePromoCode(ctx, id)
	return c.done("DeletePromoCode", "Promo code not found", map[string]string{"message": "Promo code deleted successfully"}, err)
}

// ValidatePromo previews a promo for the caller. Rejections are a valid=false payload, not an error.
func (c *CatalogUseCase) ValidatePromo(ctx context.Context, actor model.Actor, request *model.ValidatePromoRequest) utils.Result {
	if res := c.check("ValidatePromo", request, &request.Amount); res != nil {
		return *res
	}

	rejected := func(message string) utils.Result {
		return utils.Result{Data: &model.ValidatePromoResponse{
			Valid:          false,
			Message:        message,
			DiscountAmount: decimal.Zero,
			FinalAmount:    request.Amount,
		}}
	}

	promo, err := c.CatalogRepository.FindPromoByCode(ctx, request.Code)
	if errors.Is(err, repository.ErrNotFound) {
		return rejected("Invalid promo code")
	}
	if err != nil {
		c.Log.Error("catalog-usecase", err.Error(), "ValidatePromo", utils.ConvertString(request))
		return failure(httpError.NewInternalServerError(), err.Error())
	}

	uses, err := c.OrderRepository.CountPromoUses(ctx, actor.UserID, promo.ID)
	if err != nil {
		c.Log.Error("catalog-usecase", err.Error(), "ValidatePromo", utils.ConvertString(request))
		return failure(httpError.NewInternalServerError(), err.Error())
	}

	discount, err := pricing.EvaluatePromo(converter.PromoCodeToPricing(promo), pricing.PromoContext{
		Amount:       request.Amount,
		ProductOrder: request.IsProductOrder,
		UserUses:     uses,
	})
	var promoErr *pricing.PromoError
	if errors.As(err, &promoErr) {
		return rejected(promoErr.Reason)
	}
	if err != nil {
		return failure(httpError.NewInternalServerError(), err.Error())
	}

	return utils.Result{Data: &model.ValidatePromoResponse{
		Valid:          true,
		Message:        "Promo code applied successfully",
		DiscountAmount: discount,
		FinalAmount:    request.Amount.Sub(discount),
	}}
}
