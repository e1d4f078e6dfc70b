package repository_test

import (
	"context"
	"testing"

	"kotidham-service/src/internal/entity"
	"kotidham-service/src/internal/repository"
	"kotidham-service/src/internal/repository/repositorytest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(userID, productID int64, qty int) *entity.Order {
	return &entity.Order{
		OrderNumber:     "ORD-TEST-1",
		UserID:          userID,
		Subtotal:        decimal.NewFromInt(int64(100 * qty)),
		DiscountAmount:  decimal.Zero,
		ShippingCharges: decimal.Zero,
		TaxAmount:       decimal.Zero,
		TotalAmount:     decimal.NewFromInt(int64(100 * qty)),
		ShippingName:    "Asha",
		ShippingPhone:   "9876543210",
		ShippingAddress: "12 Temple Road",
		ShippingCity:    "Varanasi",
		ShippingState:   "UP",
		ShippingPincode: "221001",
		PaymentMethod:   entity.PaymentMethodOnline,
		Status:          entity.OrderPending,
		PaymentStatus:   entity.OrderPaymentPending,
		Items: []entity.OrderItem{{
			ProductID:   productID,
			ProductName: "Rudraksha",
			Quantity:    qty,
			UnitPrice:   decimal.NewFromInt(100),
			TotalPrice:  decimal.NewFromInt(int64(100 * qty)),
		}},
	}
}

func TestOrderRepositoryStockLifecycle(t *testing.T) {
	ctx := context.Background()
	db := repositorytest.New(t)
	userID := db.SeedUser(t, "Asha", "1", nil)
	productID := db.SeedProduct(t, repositorytest.ProductSeed{Name: "Rudraksha", Price: decimal.NewFromInt(100), Stock: 5})

	repo := repository.NewOrderRepository(db.Conn)
	tx := repository.NewTransactor(db.Conn)

	order := newOrder(userID, productID, 3)
	err := tx.WithinTx(ctx, func(ex repository.Executor) error {
		if err := repo.Create(ctx, ex, order); err != nil {
			return err
		}
		return repo.DecrementStock(ctx, ex, productID, 3)
	})
	require.NoError(t, err)

	stock, sales := db.ProductStock(t, productID)
	assert.Equal(t, 2, stock)
	assert.Equal(t, 3, sales)

	sqlDB, _ := db.Conn.GetDB()
	released, err := repo.ReleaseStock(ctx, sqlDB, order.ID)
	require.NoError(t, err)
	assert.True(t, released)

	released, err = repo.ReleaseStock(ctx, sqlDB, order.ID)
	require.NoError(t, err)
	assert.False(t, released, "stock is only returned once")

	stock, sales = db.ProductStock(t, productID)
	assert.Equal(t, 5, stock)
	assert.Equal(t, 0, sales)
}

func TestOrderRepositoryUnderflowRollsBack(t *testing.T) {
	ctx := context.Background()
	db := repositorytest.New(t)
	userID := db.SeedUser(t, "Asha", "1", nil)
	productID := db.SeedProduct(t, repositorytest.ProductSeed{Name: "Rudraksha", Price: decimal.NewFromInt(100), Stock: 2})

	repo := repository.NewOrderRepository(db.Conn)
	tx := repository.NewTransactor(db.Conn)

	err := tx.WithinTx(ctx, func(ex repository.Executor) error {
		if err := repo.Create(ctx, ex, newOrder(userID, productID, 3)); err != nil {
			return err
		}
		return repo.DecrementStock(ctx, ex, productID, 3)
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.Equal(t, 0, db.Count(t, "orders"))
	assert.Equal(t, 0, db.Count(t, "order_items"))

	stock, _ := db.ProductStock(t, productID)
	assert.Equal(t, 2, stock)
}

func TestOrderRepositoryPromoUsage(t *testing.T) {
	ctx := context.Background()
	db := repositorytest.New(t)
	one := 1
	promoID := db.SeedPromo(t, repositorytest.PromoSeed{Code: "ONCE", DiscountType: entity.DiscountFixed, Value: decimal.NewFromInt(10), MaxUses: &one, MaxUsesPerUser: 1})
	repo := repository.NewOrderRepository(db.Conn)
	sqlDB, _ := db.Conn.GetDB()

	require.NoError(t, repo.IncrementPromoUse(ctx, sqlDB, promoID))
	assert.ErrorIs(t, repo.IncrementPromoUse(ctx, sqlDB, promoID), repository.ErrPromoExhausted)
}

func TestOrderRepositorySettlePayment(t *testing.T) {
	ctx := context.Background()
	db := repositorytest.New(t)
	userID := db.SeedUser(t, "Asha", "1", nil)
	productID := db.SeedProduct(t, repositorytest.ProductSeed{Name: "Rudraksha", Price: decimal.NewFromInt(100), Stock: 5})
	repo := repository.NewOrderRepository(db.Conn)
	sqlDB, _ := db.Conn.GetDB()

	order := newOrder(userID, productID, 1)
	require.NoError(t, repo.Create(ctx, sqlDB, order))

	ok, err := repo.SettlePayment(ctx, sqlDB, order.ID, entity.OrderPaymentSuccess, entity.OrderConfirmed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SettlePayment(ctx, sqlDB, order.ID, entity.OrderPaymentFailed, "")
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, found.Status)
	assert.Equal(t, entity.OrderPaymentSuccess, found.PaymentStatus)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Rudraksha", found.Items[0].ProductName)

	status := entity.OrderConfirmed
	list, err := repo.List(ctx, entity.OrderFilter{UserID: &userID, Status: &status})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Items, 1)
}

func TestOrderRepositorySettlePaymentSkipsCancelled(t *testing.T) {
	ctx := context.Background()
	db := repositorytest.New(t)
	userID := db.SeedUser(t, "Asha", "1", nil)
	productID := db.SeedProduct(t, repositorytest.ProductSeed{Name: "Rudraksha", Price: decimal.NewFromInt(100), Stock: 5})
	repo := repository.NewOrderRepository(db.Conn)
	sqlDB, _ := db.Conn.GetDB()

	order := newOrder(userID, productID, 1)
	require.NoError(t, repo.Create(ctx, sqlDB, order))
	moved, err := repo.UpdateStatus(ctx, sqlDB, order.ID, []string{entity.OrderPending}, entity.OrderCancelled)
	require.NoError(t, err)
	require.True(t, moved)

	ok, err := repo.SettlePayment(ctx, sqlDB, order.ID, entity.OrderPaymentSuccess, entity.OrderConfirmed)
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, found.Status)
	assert.Equal(t, entity.OrderPaymentPending, found.PaymentStatus)
}
