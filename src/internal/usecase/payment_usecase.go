package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"kotidham-service/src/internal/entity"
	"kotidham-service/src/internal/model"
	"kotidham-service/src/internal/model/converter"
	"kotidham-service/src/internal/pricing"
	"kotidham-service/src/internal/repository"
	httpError "kotidham-service/src/pkg/http-error"
	"kotidham-service/src/pkg/log"
	redisPkg "kotidham-service/src/pkg/redis"
	"kotidham-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const verifyLockTTL = 30 * time.Second

type PaymentUseCase struct {
	Log               log.Log
	Validate          *validator.Validate
	Tx                *repository.Transactor
	BookingRepository *repository.BookingRepository
	OrderRepository   *repository.OrderRepository
	BookingPayments   *repository.PaymentRepository
	OrderPayments     *repository.PaymentRepository
	Gateway           PaymentGateway
	Locker            Locker
	Dispatcher        NotificationDispatcher
	Publisher         PaymentEventPublisher
	Currency          string
}

func NewPaymentUseCase(
	logger log.Log,
	validate *validator.Validate,
	tx *repository.Transactor,
	bookingRepository *repository.BookingRepository,
	orderRepository *repository.OrderRepository,
	bookingPayments *repository.PaymentRepository,
	orderPayments *repository.PaymentRepository,
	gateway PaymentGateway,
	locker Locker,
	dispatcher NotificationDispatcher,
	publisher PaymentEventPublisher,
	currency string,
) *PaymentUseCase {
	return &PaymentUseCase{
		Log:               logger,
		Validate:          validate,
		Tx:                tx,
		BookingRepository: bookingRepository,
		OrderRepository:   orderRepository,
		BookingPayments:   bookingPayments,
		OrderPayments:     orderPayments,
		Gateway:           gateway,
		Locker:            locker,
		Dispatcher:        dispatcher,
		Publisher:         publisher,
		Currency:          currency,
	}
}

// payable is a booking or order about to be paid for.
type payable struct {
	kind        string
	referenceID int64
	amount      decimal.Decimal
	receipt     string
	notes       map[string]string
	repo        *repository.PaymentRepository
}

func (c *PaymentUseCase) CreateBookingPayment(ctx context.Context, actor model.Actor, request *model.CreatePaymentRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("payment-usecase", err.Error(), "CreateBookingPayment", utils.ConvertString(request))
		return validationFailure(err)
	}

	booking, err := c.BookingRepository.FindByID(ctx, request.BookingID)
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "CreateBookingPayment", utils.ConvertString(request))
		return repositoryFailure(err, "Booking not found")
	}
	if !actor.CanAccess(booking.UserID) {
		return failure(httpError.NewForbidden(), "Not authorized to create payment for this booking")
	}
	if booking.Closed() {
		return failure(httpError.NewBadRequest(), "Cannot pay for a cancelled or completed booking")
	}

	id := strconv.FormatInt(booking.ID, 10)
	return c.openPayment(ctx, payable{
		kind:        model.ReferenceBooking,
		referenceID: booking.ID,
		amount:      booking.TotalAmount,
		receipt:     "booking_" + id,
		notes:       map[string]string{"booking_id": id, "user_id": strconv.FormatInt(booking.UserID, 10)},
		repo:        c.BookingPayments,
	})
}

func (c *PaymentUseCase) CreateOrderPayment(ctx context.Context, actor model.Actor, request *model.CreateOrderPaymentRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("payment-usecase", err.Error(), "CreateOrderPayment", utils.ConvertString(request))
		return validationFailure(err)
	}

	order, err := c.OrderRepository.FindByID(ctx, request.OrderID)
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "CreateOrderPayment", utils.ConvertString(request))
		return repositoryFailure(err, "Order not found")
	}
	if !actor.CanAccess(order.UserID) {
		return failure(httpError.NewNotFound(), "Order not found")
	}
	if order.PaymentMethod != entity.PaymentMethodOnline {
		return failure(httpError.NewBadRequest(), "This order is not an online payment order")
	}
	if order.Status == entity.OrderCancelled {
		return failure(httpError.NewBadRequest(), "Order is cancelled")
	}
	if order.PaymentStatus == entity.OrderPaymentFailed {
		return failure(httpError.NewBadRequest(), "Payment for this order failed, please place a new order")
	}

	return c.openPayment(ctx, payable{
		kind:        model.ReferenceOrder,
		referenceID: order.ID,
		amount:      order.TotalAmount,
		receipt:     order.OrderNumber,
		notes:       map[string]string{"order_id": strconv.FormatInt(order.ID, 10), "order_number": order.OrderNumber},
		repo:        c.OrderPayments,
	})
}

// openPayment returns the in-flight payment if one exists, otherwise opens a gateway order
// for the stored total and records or rebinds the payment row.
func (c *PaymentUseCase) openPayment(ctx context.Context, p payable) utils.Result {
	existing, err := p.repo.FindByReference(ctx, p.referenceID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.Log.Error("payment-usecase", err.Error(), "openPayment", utils.ConvertString(p.referenceID))
		return failure(httpError.NewInternalServerError(), err.Error())
	}
	if existing != nil && existing.InFlight() {
		return utils.Result{Data: converter.PaymentToGatewayResponse(existing, c.Gateway.KeyID())}
	}
	if existing != nil && existing.Status == entity.PaymentRefunded {
		return failure(httpError.NewBadRequest(), "Payment has already been refunded")
	}

	amountMinor := pricing.ToMinorUnits(p.amount)
	if amountMinor <= 0 {
		return failure(httpError.NewBadRequest(), "Payment amount must be greater than zero")
	}

	remote, err := c.Gateway.CreateOrder(ctx, amountMinor, c.Currency, p.receipt, p.notes)
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "openPayment", p.receipt)
		return failure(httpError.NewInternalServerError(), "Failed to create payment order")
	}

	payment := existing
	err = c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
		if payment != nil {
			ok, err := p.repo.Rebind(ctx, tx, payment.ID, remote.ID)
			if err != nil {
				return err
			}
			if !ok {
				return repository.ErrStaleState
			}
			payment.GatewayOrderID = remote.ID
			payment.GatewayPaymentID = nil
			payment.Signature = nil
			payment.Status = entity.PaymentCreated
			return nil
		}
		payment = &entity.Payment{
			ReferenceID:    p.referenceID,
			GatewayOrderID: remote.ID,
			Amount:         p.amount,
			Currency:       c.Currency,
			Status:         entity.PaymentCreated,
		}
		return p.repo.Create(ctx, tx, payment)
	})
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "openPayment", p.receipt)
		return repositoryFailure(err, "Payment not found")
	}

	c.Log.Info("payment-usecase", fmt.Sprintf("%s payment opened", p.kind), "openPayment", remote.ID)
	return utils.Result{Data: converter.PaymentToGatewayResponse(payment, c.Gateway.KeyID())}
}

// lock serializes verification per gateway order. A redis outage does not block payments.
func (c *PaymentUseCase) lock(ctx context.Context, gatewayOrderID string) (func(), *utils.Result) {
	release, err := c.Locker.Acquire(ctx, "PAYMENT:VERIFY:"+gatewayOrderID, verifyLockTTL)
	if err == nil {
		return release, nil
	}
	if errors.Is(err, redisPkg.ErrLockBusy) {
		res := failure(httpError.NewConflict(), "Payment verification already in progress")
		return nil, &res
	}
	c.Log.Error("payment-usecase", err.Error(), "lock", gatewayOrderID)
	return func() {}, nil
}

// settledOutcome answers a callback for a payment that already left the open states.
func settledOutcome(payment *entity.Payment, request *model.VerifyPaymentRequest) (utils.Result, bool) {
	switch payment.Status {
	case entity.PaymentSuccess:
		if payment.GatewayPaymentID != nil && *payment.GatewayPaymentID == request.RazorpayPaymentID {
			return utils.Result{Data: &model.VerifyPaymentResponse{
				Message:   "Payment verified successfully",
				PaymentID: payment.ID,
				Status:    payment.Status,
			}}, true
		}
		return failure(httpError.NewConflict(), "Payment already verified with a different payment id"), true
	case entity.PaymentFailed, entity.PaymentRefunded:
		return failure(httpError.NewConflict(), fmt.Sprintf("Payment is already %s", payment.Status)), true
	}
	return utils.Result{}, false
}

func (c *PaymentUseCase) VerifyBookingPayment(ctx context.Context, actor model.Actor, request *model.VerifyPaymentRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("payment-usecase", err.Error(), "VerifyBookingPayment", utils.ConvertString(request))
		return validationFailure(err)
	}

	release, busy := c.lock(ctx, request.RazorpayOrderID)
	if busy != nil {
		return *busy
	}
	defer release()

	payment, err := c.BookingPayments.FindByGatewayOrderID(ctx, request.RazorpayOrderID)
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "VerifyBookingPayment", utils.ConvertString(request))
		return repositoryFailure(err, "Payment not found")
	}
	booking, err := c.BookingRepository.FindByID(ctx, payment.ReferenceID)
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "VerifyBookingPayment", utils.ConvertString(request))
		return repositoryFailure(err, "Booking not found")
	}
	if !actor.CanAccess(booking.UserID) {
		return failure(httpError.NewForbidden(), "Not authorized to verify this payment")
	}
	if res, done := settledOutcome(payment, request); done {
		return res
	}
	if booking.Closed() {
		c.stranded("VerifyBookingPayment", model.ReferenceBooking, booking.ID, payment, request)
		return failure(httpError.NewConflict(), "Booking is already cancelled or completed")
	}

	if !c.Gateway.VerifySignature(request.RazorpayOrderID, request.RazorpayPaymentID, request.RazorpaySignature) {
		err = c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
			ok, err := c.BookingPayments.MarkFailed(ctx, tx, payment.ID, request.RazorpayPaymentID, request.RazorpaySignature)
			if err == nil && !ok {
				err = repository.ErrStaleState
			}
			return err
		})
		if err != nil {
			c.Log.Error("payment-usecase", err.Error(), "VerifyBookingPayment", utils.ConvertString(request))
			return repositoryFailure(err, "Payment not found")
		}
		c.Log.Info("payment-usecase", "signature mismatch, payment failed", "VerifyBookingPayment", request.RazorpayOrderID)
		c.publish(ctx, settle(payment, entity.PaymentFailed, request), model.ReferenceBooking, model.PaymentEventFailed)
		return failure(httpError.NewBadRequest(), "Payment verification failed")
	}

	// An admin may have confirmed the booking already; any other move away from pending aborts the capture.
	confirming := booking.Status == entity.BookingPending
	err = c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
		ok, err := c.BookingPayments.MarkSucceeded(ctx, tx, payment.ID, request.RazorpayPaymentID, request.RazorpaySignature)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrStaleState
		}
		if !confirming {
			return nil
		}
		moved, err := c.BookingRepository.UpdateStatus(ctx, tx, booking.ID, []string{entity.BookingPending}, entity.BookingConfirmed)
		if err == nil && !moved {
			err = repository.ErrStaleState
		}
		return err
	})
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "VerifyBookingPayment", utils.ConvertString(request))
		if errors.Is(err, repository.ErrStaleState) {
			c.stranded("VerifyBookingPayment", model.ReferenceBooking, booking.ID, payment, request)
		}
		return repositoryFailure(err, "Payment not found")
	}

	c.Log.Info("payment-usecase", "booking payment verified", "VerifyBookingPayment", request.RazorpayOrderID)
	if confirming {
		c.Dispatcher.Dispatch(ctx, model.NotificationEvent{Kind: model.ReferenceBooking, ID: booking.ID, Event: model.NotifyConfirmed})
	}
	c.publish(ctx, settle(payment, entity.PaymentSuccess, request), model.ReferenceBooking, model.PaymentEventSucceeded)

	return utils.Result{Data: &model.VerifyPaymentResponse{
		Message:   "Payment verified successfully",
		PaymentID: payment.ID,
		Status:    entity.PaymentSuccess,
	}}
}

func (c *PaymentUseCase) VerifyOrderPayment(ctx context.Context, actor model.Actor, request *model.VerifyPaymentRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("payment-usecase", err.Error(), "VerifyOrderPayment", utils.ConvertString(request))
		return validationFailure(err)
	}

	release, busy := c.lock(ctx, request.RazorpayOrderID)
	if busy != nil {
		return *busy
	}
	defer release()

	payment, err := c.OrderPayments.FindByGatewayOrderID(ctx, request.RazorpayOrderID)
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "VerifyOrderPayment", utils.ConvertString(request))
		return repositoryFailure(err, "Payment not found")
	}
	order, err := c.OrderRepository.FindByID(ctx, payment.ReferenceID)
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "VerifyOrderPayment", utils.ConvertString(request))
		return repositoryFailure(err, "Order not found")
	}
	if !actor.CanAccess(order.UserID) {
		return failure(httpError.NewNotFound(), "Order not found")
	}
	if res, done := settledOutcome(payment, request); done {
		return res
	}
	if order.Status == entity.OrderCancelled {
		c.stranded("VerifyOrderPayment", model.ReferenceOrder, order.ID, payment, request)
		return failure(httpError.NewConflict(), "Order is cancelled")
	}

	if !c.Gateway.VerifySignature(request.RazorpayOrderID, request.RazorpayPaymentID, request.RazorpaySignature) {
		err = c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
			ok, err := c.OrderPayments.MarkFailed(ctx, tx, payment.ID, request.RazorpayPaymentID, request.RazorpaySignature)
			if err != nil {
				return err
			}
			if !ok {
				return repository.ErrStaleState
			}
			settled, err := c.OrderRepository.SettlePayment(ctx, tx, order.ID, entity.OrderPaymentFailed, "")
			if err != nil {
				return err
			}
			if !settled {
				return repository.ErrStaleState
			}
			_, err = c.OrderRepository.ReleaseStock(ctx, tx, order.ID)
			return err
		})
		if err != nil {
			c.Log.Error("payment-usecase", err.Error(), "VerifyOrderPayment", utils.ConvertString(request))
			return repositoryFailure(err, "Payment not found")
		}
		c.Log.Info("payment-usecase", "signature mismatch, order payment failed", "VerifyOrderPayment", request.RazorpayOrderID)
		c.publish(ctx, settle(payment, entity.PaymentFailed, request), model.ReferenceOrder, model.PaymentEventFailed)
		return failure(httpError.NewBadRequest(), "Payment verification failed")
	}

	err = c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
		ok, err := c.OrderPayments.MarkSucceeded(ctx, tx, payment.ID, request.RazorpayPaymentID, request.RazorpaySignature)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrStaleState
		}
		settled, err := c.OrderRepository.SettlePayment(ctx, tx, order.ID, entity.OrderPaymentSuccess, entity.OrderConfirmed)
		if err == nil && !settled {
			err = repository.ErrStaleState
		}
		return err
	})
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "VerifyOrderPayment", utils.ConvertString(request))
		if errors.Is(err, repository.ErrStaleState) {
			c.stranded("VerifyOrderPayment", model.ReferenceOrder, order.ID, payment, request)
		}
		return repositoryFailure(err, "Payment not found")
	}

	c.Log.Info("payment-usecase", "order payment verified", "VerifyOrderPayment", request.RazorpayOrderID)
	c.Dispatcher.Dispatch(ctx, model.NotificationEvent{Kind: model.ReferenceOrder, ID: order.ID, Event: model.NotifyConfirmed})
	c.publish(ctx, settle(payment, entity.PaymentSuccess, request), model.ReferenceOrder, model.PaymentEventSucceeded)

	return utils.Result{Data: &model.VerifyPaymentResponse{
		Message:   "Payment verified successfully",
		PaymentID: payment.ID,
		Status:    entity.PaymentSuccess,
	}}
}

// RefundBookingPayment refunds a successful booking payment and cancels the booking.
func (c *PaymentUseCase) RefundBookingPayment(ctx context.Context, paymentID int64) utils.Result {
	payment, err := c.BookingPayments.FindByID(ctx, paymentID)
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "RefundBookingPayment", utils.ConvertString(paymentID))
		return repositoryFailure(err, "Payment not found")
	}
	if payment.Status != entity.PaymentSuccess || payment.GatewayPaymentID == nil {
		return failure(httpError.NewBadRequest(), "Only successful payments can be refunded")
	}

	refundID, err := c.Gateway.Refund(ctx, *payment.GatewayPaymentID, pricing.ToMinorUnits(payment.Amount))
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "RefundBookingPayment", utils.ConvertString(paymentID))
		return failure(httpError.NewInternalServerError(), "Failed to refund payment")
	}

	err = c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
		ok, err := c.BookingPayments.MarkRefunded(ctx, tx, payment.ID, refundID)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrStaleState
		}
		_, err = c.BookingRepository.UpdateStatus(ctx, tx, payment.ReferenceID,
			[]string{entity.BookingPending, entity.BookingConfirmed}, entity.BookingCancelled)
		return err
	})
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "RefundBookingPayment", refundID)
		return repositoryFailure(err, "Payment not found")
	}

	payment.Status = entity.PaymentRefunded
	payment.RefundID = &refundID
	c.Log.Info("payment-usecase", "payment refunded", "RefundBookingPayment", refundID)
	c.publish(ctx, payment, model.ReferenceBooking, model.PaymentEventRefunded)
	return utils.Result{Data: payment}
}

func (c *PaymentUseCase) GetPayment(ctx context.Context, actor model.Actor, id int64) utils.Result {
	payment, err := c.BookingPayments.FindByID(ctx, id)
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "GetPayment", utils.ConvertString(id))
		return repositoryFailure(err, "Payment not found")
	}
	if !actor.IsAdmin() {
		booking, err := c.BookingRepository.FindByID(ctx, payment.ReferenceID)
		if err != nil {
			return repositoryFailure(err, "Booking not found")
		}
		if !actor.CanAccess(booking.UserID) {
			return failure(httpError.NewForbidden(), "Not authorized to access this payment")
		}
	}
	return utils.Result{Data: payment}
}

func (c *PaymentUseCase) GetPaymentByBooking(ctx context.Context, actor model.Actor, bookingID int64) utils.Result {
	booking, err := c.BookingRepository.FindByID(ctx, bookingID)
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "GetPaymentByBooking", utils.ConvertString(bookingID))
		return repositoryFailure(err, "Booking not found")
	}
	if !actor.CanAccess(booking.UserID) {
		return failure(httpError.NewForbidden(), "Not authorized to access this payment")
	}
	payment, err := c.BookingPayments.FindByReference(ctx, bookingID)
	if err != nil {
		return repositoryFailure(err, "Payment not found for this booking")
	}
	return utils.Result{Data: payment}
}

func (c *PaymentUseCase) ListPayments(ctx context.Context, status string, paging model.Paging) utils.Result {
	skip, limit := utils.Paging(paging.Skip, paging.Limit)
	payments, err := c.BookingPayments.List(ctx, status, skip, limit)
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "ListPayments", status)
		return failure(httpError.NewInternalServerError(), err.Error())
	}
	return utils.Result{Data: payments}
}

func (c *PaymentUseCase) GetOrderPaymentStatus(ctx context.Context, actor model.Actor, orderID int64) utils.Result {
	order, err := c.OrderRepository.FindByID(ctx, orderID)
	if err != nil {
		c.Log.Error("payment-usecase", err.Error(), "GetOrderPaymentStatus", utils.ConvertString(orderID))
		return repositoryFailure(err, "Order not found")
	}
	if !actor.CanAccess(order.UserID) {
		return failure(httpError.NewNotFound(), "Order not found")
	}

	payment, err := c.OrderPayments.FindByReference(ctx, orderID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.Log.Error("payment-usecase", err.Error(), "GetOrderPaymentStatus", utils.ConvertString(orderID))
		return failure(httpError.NewInternalServerError(), err.Error())
	}
	return utils.Result{Data: converter.OrderToPaymentStatus(order, payment)}
}

// settle returns a copy of payment as it looks after the callback was applied.
func settle(payment *entity.Payment, status string, request *model.VerifyPaymentRequest) *entity.Payment {
	settled := *payment
	settled.Status = status
	settled.GatewayPaymentID = &request.RazorpayPaymentID
	return &settled
}

// stranded reports a genuine capture that its booking or order can no longer take, so it can be refunded by hand.
func (c *PaymentUseCase) stranded(scope, kind string, ownerID int64, payment *entity.Payment, request *model.VerifyPaymentRequest) {
	if !c.Gateway.VerifySignature(request.RazorpayOrderID, request.RazorpayPaymentID, request.RazorpaySignature) {
		return
	}
	c.Log.Error("payment-usecase", "captured payment cannot be applied, manual refund required", scope,
		fmt.Sprintf("%s_id=%d payment_id=%d razorpay_order_id=%s razorpay_payment_id=%s",
			kind, ownerID, payment.ID, request.RazorpayOrderID, request.RazorpayPaymentID))
}

func (c *PaymentUseCase) publish(ctx context.Context, payment *entity.Payment, kind, eventType string) {
	if c.Publisher == nil {
		return
	}
	event := converter.PaymentToEvent(payment, kind, eventType)
	if err := c.Publisher.PublishPayment(ctx, event); err != nil {
		c.Log.Error("payment-usecase", err.Error(), "publish", utils.ConvertString(event))
	}
}
