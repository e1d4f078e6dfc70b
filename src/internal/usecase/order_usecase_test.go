package usecase_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"regexp"
	"testing"

	"kotidham-service/src/internal/entity"
	"kotidham-service/src/internal/model"
	"kotidham-service/src/internal/repository/repositorytest"
	"kotidham-service/src/pkg/log"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderRequest(method string, items ...model.OrderItemRequest) *model.CreateOrderRequest {
	return &model.CreateOrderRequest{
		Items:           items,
		ShippingName:    "Asha",
		ShippingPhone:   "9876543210",
		ShippingAddress: "12 Temple Road",
		ShippingCity:    "Varanasi",
		ShippingState:   "UP",
		ShippingPincode: "221001",
		PaymentMethod:   method,
	}
}

type shop struct {
	userID  int64
	mala    int64
	incense int64
}

func seedShop(t *testing.T, f *fixture) shop {
	return shop{
		userID: f.db.SeedUser(t, "Asha", "9876543210", nil),
		mala: f.db.SeedProduct(t, repositorytest.ProductSeed{
			Name:              "Rudraksha Mala",
			Price:             decimal.NewFromInt(100),
			Stock:             5,
			ShippingCharge:    decimal.NewFromInt(40),
			FreeShippingAbove: decimal.NewNullDecimal(decimal.NewFromInt(500)),
			AllowCOD:          true,
		}),
		incense: f.db.SeedProduct(t, repositorytest.ProductSeed{
			Name:           "Incense",
			Price:          decimal.NewFromInt(250),
			Stock:          2,
			ShippingCharge: decimal.NewFromInt(30),
		}),
	}
}

func TestCreateOrderQuotesAndReservesStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := seedShop(t, f)
	f.db.SeedPromo(t, repositorytest.PromoSeed{Code: "DIWALI10", DiscountType: entity.DiscountPercentage, Value: decimal.NewFromInt(10), MaxUsesPerUser: 1})

	request := orderRequest(entity.PaymentMethodOnline,
		model.OrderItemRequest{ProductID: s.mala, Quantity: 2},
		model.OrderItemRequest{ProductID: s.incense, Quantity: 1})
	request.PromoCode = ptr("diwali10")

	res := f.order.CreateOrder(ctx, user(s.userID), request)
	require.NoError(t, res.Error)
	order := res.Data.(*entity.Order)

	assert.Regexp(t, regexp.MustCompile(`^ORD\d{18}$`), order.OrderNumber)
	assert.True(t, decimal.NewFromInt(450).Equal(order.Subtotal))
	assert.True(t, decimal.NewFromInt(45).Equal(order.DiscountAmount))
	assert.True(t, decimal.NewFromInt(110).Equal(order.ShippingCharges))
	assert.True(t, decimal.NewFromInt(515).Equal(order.TotalAmount), order.TotalAmount.String())
	assert.Equal(t, entity.OrderPending, order.Status)
	require.NotNil(t, order.PromoCodeID)

	stock, sales := f.db.ProductStock(t, s.mala)
	assert.Equal(t, 3, stock)
	assert.Equal(t, 2, sales)

	// per-user limit
	again := orderRequest(entity.PaymentMethodOnline, model.OrderItemRequest{ProductID: s.mala, Quantity: 1})
	again.PromoCode = ptr("DIWALI10")
	res = f.order.CreateOrder(ctx, user(s.userID), again)
	assert.Equal(t, http.StatusBadRequest, code(t, res))
	assert.Equal(t, "You have already used this promo code", res.Error.Error())
}

func TestCreateOrderRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := seedShop(t, f)
	hidden := f.db.SeedProduct(t, repositorytest.ProductSeed{Name: "Old", Price: decimal.NewFromInt(10), Stock: 10, Inactive: true})

	res := f.order.CreateOrder(ctx, user(s.userID), orderRequest(entity.PaymentMethodOnline))
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	res = f.order.CreateOrder(ctx, user(s.userID), orderRequest(entity.PaymentMethodOnline, model.OrderItemRequest{ProductID: hidden, Quantity: 1}))
	assert.Equal(t, http.StatusNotFound, code(t, res))

	res = f.order.CreateOrder(ctx, user(s.userID), orderRequest(entity.PaymentMethodOnline,
		model.OrderItemRequest{ProductID: s.incense, Quantity: 2},
		model.OrderItemRequest{ProductID: s.incense, Quantity: 1}))
	assert.Equal(t, http.StatusBadRequest, code(t, res))
	assert.Equal(t, "Insufficient stock for Incense. Available: 2", res.Error.Error())

	res = f.order.CreateOrder(ctx, user(s.userID), orderRequest(entity.PaymentMethodCOD,
		model.OrderItemRequest{ProductID: s.mala, Quantity: 1},
		model.OrderItemRequest{ProductID: s.incense, Quantity: 1}))
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	bad := orderRequest(entity.PaymentMethodOnline, model.OrderItemRequest{ProductID: s.mala, Quantity: 1})
	bad.PromoCode = ptr("NOPE")
	res = f.order.CreateOrder(ctx, user(s.userID), bad)
	assert.Equal(t, http.StatusBadRequest, code(t, res))
	assert.Equal(t, "Invalid promo code", res.Error.Error())

	assert.Equal(t, 0, f.db.Count(t, "orders"))
	stock, _ := f.db.ProductStock(t, s.incense)
	assert.Equal(t, 2, stock)
}

func TestCancelOrderRestoresStockOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := seedShop(t, f)

	res := f.order.CreateOrder(ctx, user(s.userID), orderRequest(entity.PaymentMethodCOD, model.OrderItemRequest{ProductID: s.mala, Quantity: 4}))
	require.NoError(t, res.Error)
	id := res.Data.(*entity.Order).ID

	assert.Equal(t, http.StatusForbidden, code(t, f.order.CancelOrder(ctx, user(s.userID+1), id)))
	require.NoError(t, f.order.CancelOrder(ctx, user(s.userID), id).Error)
	assert.Equal(t, http.StatusBadRequest, code(t, f.order.CancelOrder(ctx, user(s.userID), id)))

	stock, sales := f.db.ProductStock(t, s.mala)
	assert.Equal(t, 5, stock)
	assert.Equal(t, 0, sales)
}

func TestAdminOrderPatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := seedShop(t, f)

	res := f.order.CreateOrder(ctx, user(s.userID), orderRequest(entity.PaymentMethodCOD, model.OrderItemRequest{ProductID: s.mala, Quantity: 1}))
	require.NoError(t, res.Error)
	id := res.Data.(*entity.Order).ID

	res = f.order.UpdateOrder(ctx, id, &model.OrderPatch{Status: ptr(entity.OrderConfirmed), Notes: ptr("gift wrap")})
	require.NoError(t, res.Error)
	updated := res.Data.(*entity.Order)
	assert.Equal(t, entity.OrderConfirmed, updated.Status)
	assert.Equal(t, "gift wrap", *updated.Notes)

	res = f.order.UpdateOrder(ctx, id, &model.OrderPatch{Status: ptr(entity.OrderCancelled)})
	require.NoError(t, res.Error)
	stock, _ := f.db.ProductStock(t, s.mala)
	assert.Equal(t, 5, stock)

	res = f.order.UpdateOrder(ctx, id, &model.OrderPatch{Status: ptr(entity.OrderShipped)})
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	status := entity.OrderCancelled
	res = f.order.ListAllOrders(ctx, &model.OrderListRequest{Status: status})
	require.NoError(t, res.Error)
	assert.Len(t, res.Data.([]entity.Order), 1)

	res = f.order.ListMyOrders(ctx, user(s.userID+1), &model.OrderListRequest{})
	require.NoError(t, res.Error)
	assert.Empty(t, res.Data.([]entity.Order))
}

func TestOrderPaymentReconciliation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := seedShop(t, f)

	res := f.order.CreateOrder(ctx, user(s.userID), orderRequest(entity.PaymentMethodOnline, model.OrderItemRequest{ProductID: s.mala, Quantity: 3}))
	require.NoError(t, res.Error)
	order := res.Data.(*entity.Order)

	res = f.payment.CreateOrderPayment(ctx, user(s.userID+1), &model.CreateOrderPaymentRequest{OrderID: order.ID})
	assert.Equal(t, http.StatusNotFound, code(t, res))

	res = f.payment.CreateOrderPayment(ctx, user(s.userID), &model.CreateOrderPaymentRequest{OrderID: order.ID})
	require.NoError(t, res.Error)
	gw := res.Data.(*model.GatewayOrderResponse)
	assert.Equal(t, int64(42000), gw.AmountMinor)

	request := verifyRequest(gw.RazorpayOrderID, "pay_1")
	request.RazorpaySignature = "forged"
	res = f.payment.VerifyOrderPayment(ctx, user(s.userID), request)
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	stock, _ := f.db.ProductStock(t, s.mala)
	assert.Equal(t, 5, stock, "failed payment returns the stock")

	res = f.payment.GetOrderPaymentStatus(ctx, user(s.userID), order.ID)
	require.NoError(t, res.Error)
	status := res.Data.(*model.OrderPaymentStatusResponse)
	assert.Equal(t, entity.OrderPaymentFailed, status.PaymentStatus)
	assert.Equal(t, entity.PaymentFailed, *status.GatewayStatus)

	res = f.payment.CreateOrderPayment(ctx, user(s.userID), &model.CreateOrderPaymentRequest{OrderID: order.ID})
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	require.NoError(t, f.order.CancelOrder(ctx, user(s.userID), order.ID).Error)
	stock, _ = f.db.ProductStock(t, s.mala)
	assert.Equal(t, 5, stock, "cancel after a failed payment does not restore twice")
}

func TestOrderPaymentSuccessConfirmsOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := seedShop(t, f)

	res := f.order.CreateOrder(ctx, user(s.userID), orderRequest(entity.PaymentMethodOnline, model.OrderItemRequest{ProductID: s.mala, Quantity: 1}))
	require.NoError(t, res.Error)
	order := res.Data.(*entity.Order)

	res = f.payment.CreateOrderPayment(ctx, user(s.userID), &model.CreateOrderPaymentRequest{OrderID: order.ID})
	require.NoError(t, res.Error)
	gw := res.Data.(*model.GatewayOrderResponse)

	require.NoError(t, f.payment.VerifyOrderPayment(ctx, user(s.userID), verifyRequest(gw.RazorpayOrderID, "pay_9")).Error)

	res = f.order.GetOrder(ctx, user(s.userID), order.ID)
	require.NoError(t, res.Error)
	confirmed := res.Data.(*entity.Order)
	assert.Equal(t, entity.OrderConfirmed, confirmed.Status)
	assert.Equal(t, entity.OrderPaymentSuccess, confirmed.PaymentStatus)

	stock, sales := f.db.ProductStock(t, s.mala)
	assert.Equal(t, 4, stock)
	assert.Equal(t, 1, sales)

	events := f.dispatcher.Events()
	last := events[len(events)-1]
	assert.Equal(t, model.ReferenceOrder, last.Kind)
	assert.Equal(t, model.NotifyConfirmed, last.Event)
}

func TestCODOrderCannotOpenGatewayPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := seedShop(t, f)

	res := f.order.CreateOrder(ctx, user(s.userID), orderRequest(entity.PaymentMethodCOD, model.OrderItemRequest{ProductID: s.mala, Quantity: 1}))
	require.NoError(t, res.Error)

	res = f.payment.CreateOrderPayment(ctx, user(s.userID), &model.CreateOrderPaymentRequest{OrderID: res.Data.(*entity.Order).ID})
	assert.Equal(t, http.StatusBadRequest, code(t, res))
	assert.Empty(t, f.gateway.orders)
}

// onlineOrder places a one-mala online order and opens its gateway payment.
func onlineOrder(t *testing.T, f *fixture, s shop) (*entity.Order, *model.GatewayOrderResponse) {
	t.Helper()
	ctx := context.Background()
	res := f.order.CreateOrder(ctx, user(s.userID), orderRequest(entity.PaymentMethodOnline, model.OrderItemRequest{ProductID: s.mala, Quantity: 1}))
	require.NoError(t, res.Error)
	order := res.Data.(*entity.Order)

	res = f.payment.CreateOrderPayment(ctx, user(s.userID), &model.CreateOrderPaymentRequest{OrderID: order.ID})
	require.NoError(t, res.Error)
	return order, res.Data.(*model.GatewayOrderResponse)
}

func TestAdminCannotPatchOnlinePaymentStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := seedShop(t, f)
	order, _ := onlineOrder(t, f, s)

	res := f.order.UpdateOrder(ctx, order.ID, &model.OrderPatch{PaymentStatus: ptr(entity.OrderPaymentFailed)})
	assert.Equal(t, http.StatusBadRequest, code(t, res))
	res = f.order.UpdateOrder(ctx, order.ID, &model.OrderPatch{PaymentStatus: ptr(entity.OrderPaymentSuccess)})
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	found, err := f.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPaymentPending, found.PaymentStatus)

	res = f.order.CreateOrder(ctx, user(s.userID), orderRequest(entity.PaymentMethodCOD, model.OrderItemRequest{ProductID: s.mala, Quantity: 1}))
	require.NoError(t, res.Error)
	cod := res.Data.(*entity.Order)
	res = f.order.UpdateOrder(ctx, cod.ID, &model.OrderPatch{PaymentStatus: ptr(entity.OrderPaymentSuccess)})
	require.NoError(t, res.Error)
	assert.Equal(t, entity.OrderPaymentSuccess, res.Data.(*entity.Order).PaymentStatus)
}

func TestOrderPaymentVerifyNeedsPendingOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := seedShop(t, f)
	order, gw := onlineOrder(t, f, s)

	_, err := f.db.SQL.Exec(`UPDATE orders SET payment_status = ? WHERE id = ?`, entity.OrderPaymentFailed, order.ID)
	require.NoError(t, err)
	events := len(f.dispatcher.Events())

	res := f.payment.VerifyOrderPayment(ctx, user(s.userID), verifyRequest(gw.RazorpayOrderID, "pay_1"))
	assert.Equal(t, http.StatusConflict, code(t, res))

	found, err := f.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, found.Status)
	assert.Equal(t, entity.OrderPaymentFailed, found.PaymentStatus)

	res = f.payment.GetOrderPaymentStatus(ctx, user(s.userID), order.ID)
	require.NoError(t, res.Error)
	assert.Equal(t, entity.PaymentCreated, *res.Data.(*model.OrderPaymentStatusResponse).GatewayStatus, "payment row rolls back with the order")
	assert.Len(t, f.dispatcher.Events(), events)
	assert.Empty(t, f.publisher.Types())
}

func TestOrderPaymentFailureNeedsPendingOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := seedShop(t, f)
	order, gw := onlineOrder(t, f, s)

	_, err := f.db.SQL.Exec(`UPDATE orders SET payment_status = ? WHERE id = ?`, entity.OrderPaymentSuccess, order.ID)
	require.NoError(t, err)

	request := verifyRequest(gw.RazorpayOrderID, "pay_1")
	request.RazorpaySignature = "forged"
	res := f.payment.VerifyOrderPayment(ctx, user(s.userID), request)
	assert.Equal(t, http.StatusConflict, code(t, res))

	stock, sales := f.db.ProductStock(t, s.mala)
	assert.Equal(t, 4, stock, "stock stays reserved")
	assert.Equal(t, 1, sales)

	res = f.payment.GetOrderPaymentStatus(ctx, user(s.userID), order.ID)
	require.NoError(t, res.Error)
	assert.Equal(t, entity.PaymentCreated, *res.Data.(*model.OrderPaymentStatusResponse).GatewayStatus)
	assert.Empty(t, f.publisher.Types())
}

func TestCapturedPaymentOnCancelledOrderIsReported(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	var out bytes.Buffer
	f.payment.Log = log.NewWithWriter("test", "ERROR", &out)
	s := seedShop(t, f)
	order, gw := onlineOrder(t, f, s)

	require.NoError(t, f.order.CancelOrder(ctx, user(s.userID), order.ID).Error)
	res := f.payment.VerifyOrderPayment(ctx, user(s.userID), verifyRequest(gw.RazorpayOrderID, "pay_7"))
	assert.Equal(t, http.StatusConflict, code(t, res))

	assert.Contains(t, out.String(), "manual refund required")
	assert.Contains(t, out.String(), fmt.Sprintf("order_id=%d", order.ID))
	assert.Contains(t, out.String(), "razorpay_payment_id=pay_7")
}
