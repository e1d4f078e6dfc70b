package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"kotidham-service/src/internal/entity"
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

type OrderUseCase struct {
	Log               log.Log
	Validate          *validator.Validate
	Tx                *repository.Transactor
	OrderRepository   *repository.OrderRepository
	CatalogRepository *repository.CatalogRepository
	Dispatcher        NotificationDispatcher
	Now               func() time.Time
}

func NewOrderUseCase(
	logger log.Log,
	validate *validator.Validate,
	tx *repository.Transactor,
	orderRepository *repository.OrderRepository,
	catalogRepository *repository.CatalogRepository,
	dispatcher NotificationDispatcher,
) *OrderUseCase {
	return &OrderUseCase{
		Log:               logger,
		Validate:          validate,
		Tx:                tx,
		OrderRepository:   orderRepository,
		CatalogRepository: catalogRepository,
		Dispatcher:        dispatcher,
		Now:               time.Now,
	}
}

// orderNumber is ORD, the UTC timestamp and four random digits.
func orderNumber(now time.Time) string {
	return fmt.Sprintf("ORD%s%04d", now.UTC().Format("20060102150405"), rand.Intn(10000))
}

func (c *OrderUseCase) CreateOrder(ctx context.Context, actor model.Actor, request *model.CreateOrderRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("order-usecase", err.Error(), "CreateOrder", utils.ConvertString(request))
		return validationFailure(err)
	}

	ids := make([]int64, 0, len(request.Items))
	for _, item := range request.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := c.CatalogRepository.FindProductsByIDs(ctx, ids)
	if err != nil {
		c.Log.Error("order-usecase", err.Error(), "CreateOrder", utils.ConvertString(request))
		return failure(httpError.NewInternalServerError(), err.Error())
	}

	// the same product may appear on several lines
	wanted := map[int64]int{}
	lines := make([]pricing.Line, 0, len(request.Items))
	for _, item := range request.Items {
		product, ok := products[item.ProductID]
		if !ok || !product.IsActive {
			return failure(httpError.NewNotFound(), fmt.Sprintf("Product %d not found or inactive", item.ProductID))
		}
		wanted[product.ID] += item.Quantity
		if product.StockQuantity < wanted[product.ID] {
			return failure(httpError.NewBadRequest(), fmt.Sprintf("Insufficient stock for %s. Available: %d", product.Name, product.StockQuantity))
		}
		if request.PaymentMethod == entity.PaymentMethodCOD && !product.AllowCOD {
			return failure(httpError.NewBadRequest(), "Cash on Delivery is not available for one or more products in your cart")
		}
		lines = append(lines, converter.ProductToLine(&product, item.Quantity))
	}

	now := c.Now()
	subtotal := pricing.Subtotal(lines)
	discount := decimal.Zero
	var promoID *int64
	if request.PromoCode != nil && *request.PromoCode != "" {
		promo, err := c.CatalogRepository.FindPromoByCode(ctx, *request.PromoCode)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return failure(httpError.NewBadRequest(), "Invalid promo code")
			}
			c.Log.Error("order-usecase", err.Error(), "CreateOrder", utils.ConvertString(request))
			return failure(httpError.NewInternalServerError(), err.Error())
		}
		uses, err := c.OrderRepository.CountPromoUses(ctx, actor.UserID, promo.ID)
		if err != nil {
			c.Log.Error("order-usecase", err.Error(), "CreateOrder", utils.ConvertString(request))
			return failure(httpError.NewInternalServerError(), err.Error())
		}
		discount, err = pricing.EvaluatePromo(converter.PromoCodeToPricing(promo), pricing.PromoContext{
			Amount:       subtotal,
			ProductOrder: true,
			UserUses:     uses,
			Now:          now,
		})
		if err != nil {
			return failure(httpError.NewBadRequest(), err.Error())
		}
		promoID = &promo.ID
	}

	quote := pricing.QuoteOrder(lines, discount)
	order := &entity.Order{
		OrderNumber:     orderNumber(now),
		UserID:          actor.UserID,
		PromoCodeID:     promoID,
		Subtotal:        quote.Subtotal,
		DiscountAmount:  quote.Discount,
		ShippingCharges: quote.Shipping,
		TaxAmount:       quote.Tax,
		TotalAmount:     quote.Total,
		ShippingName:    request.ShippingName,
		ShippingPhone:   request.ShippingPhone,
		ShippingEmail:   request.ShippingEmail,
		ShippingAddress: request.ShippingAddress,
		ShippingCity:    request.ShippingCity,
		ShippingState:   request.ShippingState,
		ShippingPincode: request.ShippingPincode,
		Notes:           request.Notes,
		PaymentMethod:   request.PaymentMethod,
		Status:          entity.OrderPending,
		PaymentStatus:   entity.OrderPaymentPending,
	}
	for _, line := range quote.Lines {
		order.Items = append(order.Items, entity.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.LineTotal,
		})
	}

	err = c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
		if err := c.OrderRepository.Create(ctx, tx, order); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := c.OrderRepository.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if promoID != nil {
			return c.OrderRepository.IncrementPromoUse(ctx, tx, *promoID)
		}
		return nil
	})
	switch {
	case errors.Is(err, repository.ErrInsufficientStock):
		return failure(httpError.NewConflict(), "Insufficient stock, please review your cart")
	case errors.Is(err, repository.ErrPromoExhausted):
		return failure(httpError.NewBadRequest(), "This promo code has reached its usage limit")
	case err != nil:
		c.Log.Error("order-usecase", err.Error(), "CreateOrder", utils.ConvertString(request))
		return failure(httpError.NewInternalServerError(), "failed to create order")
	}

	c.Log.Info("order-usecase", "order created", "CreateOrder", order.OrderNumber)
	c.Dispatcher.Dispatch(ctx, model.NotificationEvent{Kind: model.ReferenceOrder, ID: order.ID, Event: model.NotifyPending})
	return utils.Result{Data: order}
}

func (c *OrderUseCase) ListMyOrders(ctx context.Context, actor model.Actor, request *model.OrderListRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		return validationFailure(err)
	}
	filter := orderFilter(request)
	filter.UserID = &actor.UserID
	return c.list(ctx, filter)
}

func (c *OrderUseCase) ListAllOrders(ctx context.Context, request *model.OrderListRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		return validationFailure(err)
	}
	return c.list(ctx, orderFilter(request))
}

func orderFilter(request *model.OrderListRequest) entity.OrderFilter {
	filter := entity.OrderFilter{}
	filter.Skip, filter.Limit = utils.Paging(request.Skip, request.Limit)
	if request.Status != "" {
		filter.Status = &request.Status
	}
	if request.PaymentStatus != "" {
		filter.PaymentStatus = &request.PaymentStatus
	}
	return filter
}

func (c *OrderUseCase) list(ctx context.Context, filter entity.OrderFilter) utils.Result {
	orders, err := c.OrderRepository.List(ctx, filter)
	if err != nil {
		c.Log.Error("order-usecase", err.Error(), "ListOrders", utils.ConvertString(filter))
		return failure(httpError.NewInternalServerError(), err.Error())
	}
	return utils.Result{Data: orders}
}

func (c *OrderUseCase) GetOrder(ctx context.Context, actor model.Actor, id int64) utils.Result {
	order, err := c.OrderRepository.FindByID(ctx, id)
	if err != nil {
		c.Log.Error("order-usecase", err.Error(), "GetOrder", utils.ConvertString(id))
		return repositoryFailure(err, "Order not found")
	}
	if !actor.CanAccess(order.UserID) {
		return failure(httpError.NewForbidden(), "Not authorized to view this order")
	}
	return utils.Result{Data: order}
}

func (c *OrderUseCase) CancelOrder(ctx context.Context, actor model.Actor, id int64) utils.Result {
	order, err := c.OrderRepository.FindByID(ctx, id)
	if err != nil {
		c.Log.Error("order-usecase", err.Error(), "CancelOrder", utils.ConvertString(id))
		return repositoryFailure(err, "Order not found")
	}
	if !actor.CanAccess(order.UserID) {
		return failure(httpError.NewForbidden(), "Not authorized to cancel this order")
	}
	if !order.Cancellable() {
		return failure(httpError.NewBadRequest(), "Cannot cancel order in current status")
	}

	if res := c.cancel(ctx, order.ID); res.Error != nil {
		return res
	}
	c.Log.Info("order-usecase", "order cancelled", "CancelOrder", order.OrderNumber)
	return utils.Result{Data: map[string]string{"message": "Order cancelled successfully"}}
}

// cancel moves the order to cancelled and returns its stock unless a failed payment already did.
func (c *OrderUseCase) cancel(ctx context.Context, id int64) utils.Result {
	err := c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
		moved, err := c.OrderRepository.UpdateStatus(ctx, tx, id,
			[]string{entity.OrderPending, entity.OrderConfirmed}, entity.OrderCancelled)
		if err != nil {
			return err
		}
		if !moved {
			return repository.ErrStaleState
		}
		_, err = c.OrderRepository.ReleaseStock(ctx, tx, id)
		return err
	})
	if err != nil {
		c.Log.Error("order-usecase", err.Error(), "cancel", utils.ConvertString(id))
		return repositoryFailure(err, "Order not found")
	}
	return utils.Result{}
}

// UpdateOrder applies an admin patch. Cancelling goes through the same path as CancelOrder.
func (c *OrderUseCase) UpdateOrder(ctx context.Context, id int64, patch *model.OrderPatch) utils.Result {
	if err := c.Validate.Struct(patch); err != nil {
		c.Log.Error("order-usecase", err.Error(), "UpdateOrder", utils.ConvertString(patch))
		return validationFailure(err)
	}

	order, err := c.OrderRepository.FindByID(ctx, id)
	if err != nil {
		c.Log.Error("order-usecase", err.Error(), "UpdateOrder", utils.ConvertString(id))
		return repositoryFailure(err, "Order not found")
	}

	if patch.PaymentStatus != nil && order.PaymentMethod == entity.PaymentMethodOnline && *patch.PaymentStatus != order.PaymentStatus {
		return failure(httpError.NewBadRequest(), "Payment status of online orders is set by payment verification")
	}

	cols := patch.Columns()
	cancelling := patch.Status != nil && *patch.Status == entity.OrderCancelled && order.Status != entity.OrderCancelled
	if cancelling {
		if !order.Cancellable() {
			return failure(httpError.NewBadRequest(), "Cannot cancel order in current status")
		}
		if res := c.cancel(ctx, id); res.Error != nil {
			return res
		}
		delete(cols, "status")
		order.Status = entity.OrderCancelled
	} else if patch.Status != nil && order.Status == entity.OrderCancelled && *patch.Status != entity.OrderCancelled {
		return failure(httpError.NewBadRequest(), "Cancelled orders cannot be reopened")
	}

	if len(cols) > 0 {
		var moved bool
		err = c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
			moved, err = c.OrderRepository.Patch(ctx, tx, id, order.Status, cols)
			return err
		})
		if err != nil {
			c.Log.Error("order-usecase", err.Error(), "UpdateOrder", utils.ConvertString(patch))
			return failure(httpError.NewInternalServerError(), err.Error())
		}
		if !moved {
			return repositoryFailure(repository.ErrStaleState, "")
		}
	}

	if patch.Status != nil && *patch.Status == entity.OrderConfirmed && order.Status != entity.OrderConfirmed {
		c.Dispatcher.Dispatch(ctx, model.NotificationEvent{Kind: model.ReferenceOrder, ID: id, Event: model.NotifyConfirmed})
	}

	updated, err := c.OrderRepository.FindByID(ctx, id)
	if err != nil {
		return repositoryFailure(err, "Order not found")
	}
	return utils.Result{Data: updated}
}
