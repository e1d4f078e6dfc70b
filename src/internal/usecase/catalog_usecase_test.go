package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"kotidham-service/src/internal/entity"
	"kotidham-service/src/internal/model"
	"kotidham-service/src/internal/repository/repositorytest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogPromoCodeAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res := f.catalog.CreatePromoCode(ctx, &model.CreatePromoCodeRequest{
		Code:                 " festive ",
		DiscountType:         entity.DiscountFixed,
		DiscountValue:        decimal.NewFromInt(50),
		MaxUsesPerUser:       1,
		ApplicableToProducts: true,
	})
	require.NoError(t, res.Error)
	promo := res.Data.(*entity.PromoCode)
	assert.Equal(t, "FESTIVE", promo.Code)
	assert.True(t, promo.IsActive)

	res = f.catalog.CreatePromoCode(ctx, &model.CreatePromoCodeRequest{Code: "FESTIVE", DiscountType: entity.DiscountFixed})
	assert.Equal(t, http.StatusConflict, code(t, res))

	res = f.catalog.CreatePromoCode(ctx, &model.CreatePromoCodeRequest{Code: "BOGUS", DiscountType: "bogus"})
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	res = f.catalog.CreatePromoCode(ctx, &model.CreatePromoCodeRequest{Code: "NEG", DiscountType: entity.DiscountFixed, DiscountValue: decimal.NewFromInt(-1)})
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	res = f.catalog.UpdatePromoCode(ctx, promo.ID, &model.PromoCodePatch{Code: ptr("festive"), IsActive: ptr(false)})
	require.NoError(t, res.Error)
	assert.False(t, res.Data.(*entity.PromoCode).IsActive)

	res = f.catalog.ListPromoCodes(ctx, true, model.Paging{})
	require.NoError(t, res.Error)
	assert.Empty(t, res.Data.([]entity.PromoCode))

	require.NoError(t, f.catalog.DeletePromoCode(ctx, promo.ID).Error)
	assert.Equal(t, http.StatusNotFound, code(t, f.catalog.GetPromoCode(ctx, promo.ID)))
}

func TestValidatePromo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID := f.db.SeedUser(t, "Asha", "1", nil)
	f.db.SeedPromo(t, repositorytest.PromoSeed{
		Code:           "SAVE20",
		DiscountType:   entity.DiscountPercentage,
		Value:          decimal.NewFromInt(20),
		MaxDiscount:    decimal.NewNullDecimal(decimal.NewFromInt(100)),
		MinOrder:       decimal.NewNullDecimal(decimal.NewFromInt(300)),
		MaxUsesPerUser: 2,
	})

	res := f.catalog.ValidatePromo(ctx, user(userID), &model.ValidatePromoRequest{Code: "save20", Amount: decimal.NewFromInt(1000), IsProductOrder: true})
	require.NoError(t, res.Error)
	ok := res.Data.(*model.ValidatePromoResponse)
	assert.True(t, ok.Valid)
	assert.True(t, decimal.NewFromInt(100).Equal(ok.DiscountAmount))
	assert.True(t, decimal.NewFromInt(900).Equal(ok.FinalAmount))

	res = f.catalog.ValidatePromo(ctx, user(userID), &model.ValidatePromoRequest{Code: "SAVE20", Amount: decimal.NewFromInt(200), IsProductOrder: true})
	require.NoError(t, res.Error)
	low := res.Data.(*model.ValidatePromoResponse)
	assert.False(t, low.Valid)
	assert.Equal(t, "Minimum order amount of ₹300.00 required", low.Message)

	res = f.catalog.ValidatePromo(ctx, user(userID), &model.ValidatePromoRequest{Code: "MISSING", Amount: decimal.NewFromInt(200)})
	require.NoError(t, res.Error)
	assert.Equal(t, "Invalid promo code", res.Data.(*model.ValidatePromoResponse).Message)
}

func TestCatalogPublicProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res := f.catalog.CreateProduct(ctx, &model.CreateProductRequest{
		Name:          "Ganga Jal",
		SellingPrice:  decimal.NewFromInt(99),
		ActualPrice:   decimal.NewFromInt(149),
		StockQuantity: 10,
		IsActive:      ptr(false),
	})
	require.NoError(t, res.Error)
	id := res.Data.(*entity.Product).ID

	assert.Equal(t, http.StatusNotFound, code(t, f.catalog.GetProduct(ctx, id, false)))
	require.NoError(t, f.catalog.GetProduct(ctx, id, true).Error)

	res = f.catalog.UpdateProduct(ctx, id, &model.ProductPatch{IsActive: ptr(true), SellingPrice: ptr(decimal.NewFromInt(-5))})
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	res = f.catalog.UpdateProduct(ctx, id, &model.ProductPatch{IsActive: ptr(true)})
	require.NoError(t, res.Error)

	res = f.catalog.ListProducts(ctx, true, model.Paging{})
	require.NoError(t, res.Error)
	assert.Len(t, res.Data.([]entity.Product), 1)
}

func TestCatalogPlansAndChadawas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res := f.catalog.CreatePlan(ctx, &model.CreatePlanRequest{
		Name:            "Family",
		ActualPrice:     decimal.NewFromInt(500),
		DiscountedPrice: decimal.NewNullDecimal(decimal.NewFromInt(-1)),
	})
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	res = f.catalog.CreatePlan(ctx, &model.CreatePlanRequest{Name: "Family", ActualPrice: decimal.NewFromInt(500)})
	require.NoError(t, res.Error)

	res = f.catalog.CreateChadawa(ctx, &model.CreateChadawaRequest{Name: "Diya", Price: decimal.NewFromInt(51), RequiresNote: true})
	require.NoError(t, res.Error)
	chadawaID := res.Data.(*entity.Chadawa).ID

	res = f.catalog.UpdateChadawa(ctx, chadawaID, &model.ChadawaPatch{RequiresNote: ptr(false)})
	require.NoError(t, res.Error)
	assert.False(t, res.Data.(*entity.Chadawa).RequiresNote)

	plans := f.catalog.ListPlans(ctx, model.Paging{})
	require.NoError(t, plans.Error)
	assert.Len(t, plans.Data.([]entity.Plan), 1)

	assert.Equal(t, http.StatusNotFound, code(t, f.catalog.DeleteChadawa(ctx, 404)))
	assert.Equal(t, http.StatusNotFound, code(t, f.catalog.GetPuja(ctx, 404)))
}

func TestDeleteOrderedProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := seedShop(t, f)

	res := f.order.CreateOrder(ctx, user(s.userID), orderRequest(entity.PaymentMethodCOD, model.OrderItemRequest{ProductID: s.mala, Quantity: 1}))
	require.NoError(t, res.Error)

	res = f.catalog.DeleteProduct(ctx, s.mala)
	assert.Equal(t, http.StatusConflict, code(t, res))
	assert.Equal(t, "Product has been ordered, deactivate it instead", res.Error.Error())

	res = f.catalog.UpdateProduct(ctx, s.mala, &model.ProductPatch{IsActive: ptr(false)})
	require.NoError(t, res.Error)
	assert.Equal(t, http.StatusNotFound, code(t, f.catalog.GetProduct(ctx, s.mala, false)))

	require.NoError(t, f.catalog.DeleteProduct(ctx, s.incense).Error)
	assert.Equal(t, http.StatusNotFound, code(t, f.catalog.DeleteProduct(ctx, s.incense)))
}
