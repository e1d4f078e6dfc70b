package usecase

import (
	"context"
	"fmt"
	"slices"
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

// bookingTransitions lists the statuses an admin patch may move a booking to.
var bookingTransitions = map[string][]string{
	entity.BookingPending:   {entity.BookingConfirmed, entity.BookingCancelled},
	entity.BookingConfirmed: {entity.BookingCompleted, entity.BookingCancelled},
}

type BookingUseCase struct {
	Log               log.Log
	Validate          *validator.Validate
	Tx                *repository.Transactor
	BookingRepository *repository.BookingRepository
	CatalogRepository *repository.CatalogRepository
	Dispatcher        NotificationDispatcher
	Payments          *PaymentUseCase
}

func NewBookingUseCase(
	logger log.Log,
	validate *validator.Validate,
	tx *repository.Transactor,
	bookingRepository *repository.BookingRepository,
	catalogRepository *repository.CatalogRepository,
	dispatcher NotificationDispatcher,
	payments *PaymentUseCase,
) *BookingUseCase {
	return &BookingUseCase{
		Log:               logger,
		Validate:          validate,
		Tx:                tx,
		BookingRepository: bookingRepository,
		CatalogRepository: catalogRepository,
		Dispatcher:        dispatcher,
		Payments:          payments,
	}
}

func (c *BookingUseCase) CreateBooking(ctx context.Context, actor model.Actor, request *model.CreateBookingRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("booking-usecase", err.Error(), "CreateBooking", utils.ConvertString(request))
		return validationFailure(err)
	}
	if request.PujaID != nil && request.TempleID != nil {
		return failure(httpError.NewBadRequest(), "Booking must be for either a puja or a temple, not both")
	}

	if request.PujaID != nil {
		if _, err := c.CatalogRepository.FindPuja(ctx, *request.PujaID); err != nil {
			c.Log.Error("booking-usecase", err.Error(), "CreateBooking", utils.ConvertString(request))
			return repositoryFailure(err, "Puja not found")
		}
	}
	if request.TempleID != nil {
		if _, err := c.CatalogRepository.FindTemple(ctx, *request.TempleID); err != nil {
			c.Log.Error("booking-usecase", err.Error(), "CreateBooking", utils.ConvertString(request))
			return repositoryFailure(err, "Temple not found")
		}
	}

	var plan *entity.Plan
	if request.PlanID != nil {
		found, err := c.CatalogRepository.FindPlan(ctx, *request.PlanID)
		if err != nil {
			c.Log.Error("booking-usecase", err.Error(), "CreateBooking", utils.ConvertString(request))
			return repositoryFailure(err, "Plan not found")
		}
		plan = found
	}

	ids := make([]int64, 0, len(request.Chadawas))
	for _, item := range request.Chadawas {
		ids = append(ids, item.ChadawaID)
	}
	catalog, err := c.CatalogRepository.FindChadawasByIDs(ctx, ids)
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), "CreateBooking", utils.ConvertString(request))
		return failure(httpError.NewInternalServerError(), err.Error())
	}

	booking := &entity.Booking{
		UserID:         actor.UserID,
		PujaID:         request.PujaID,
		TempleID:       request.TempleID,
		PlanID:         request.PlanID,
		Status:         entity.BookingPending,
		MobileNumber:   request.MobileNumber,
		WhatsappNumber: request.WhatsappNumber,
		Gotra:          request.Gotra,
		BookingDate:    time.Now().UTC(),
	}

	prices := make([]decimal.Decimal, 0, len(request.Chadawas))
	for _, item := range request.Chadawas {
		chadawa, ok := catalog[item.ChadawaID]
		if !ok {
			return failure(httpError.NewNotFound(), fmt.Sprintf("Chadawa with ID %d not found", item.ChadawaID))
		}
		if chadawa.RequiresNote && (item.Note == nil || *item.Note == "") {
			return failure(httpError.NewBadRequest(), fmt.Sprintf("Note is required for chadawa: %s", chadawa.Name))
		}
		prices = append(prices, chadawa.Price)
		booking.Chadawas = append(booking.Chadawas, entity.BookingChadawa{
			ChadawaID: chadawa.ID,
			Name:      chadawa.Name,
			Note:      item.Note,
			Price:     chadawa.Price,
		})
	}

	input := pricing.BookingInput{TempleOnly: booking.TempleOnly(), Chadawas: prices}
	if plan != nil {
		input.Plan = converter.PlanToPricing(plan)
	}
	booking.TotalAmount = pricing.BookingTotal(input)

	err = c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
		return c.BookingRepository.Create(ctx, tx, booking)
	})
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), "CreateBooking", utils.ConvertString(request))
		return failure(httpError.NewInternalServerError(), "failed to create booking")
	}

	c.Log.Info("booking-usecase", "booking created", "CreateBooking", utils.ConvertString(booking.ID))
	c.Dispatcher.Dispatch(ctx, model.NotificationEvent{Kind: model.ReferenceBooking, ID: booking.ID, Event: model.NotifyPending})
	return utils.Result{Data: booking}
}

// Checkout creates the booking and opens the gateway order it will be paid against.
func (c *BookingUseCase) Checkout(ctx context.Context, actor model.Actor, request *model.CreateBookingRequest) utils.Result {
	created := c.CreateBooking(ctx, actor, request)
	if created.Error != nil {
		return created
	}
	booking := created.Data.(*entity.Booking)

	paid := c.Payments.CreateBookingPayment(ctx, actor, &model.CreatePaymentRequest{BookingID: booking.ID})
	if paid.Error != nil {
		return paid
	}

	return utils.Result{Data: &model.CheckoutResponse{
		Booking: booking,
		Payment: paid.Data.(*model.GatewayOrderResponse),
	}}
}

func (c *BookingUseCase) GetBooking(ctx context.Context, actor model.Actor, id int64) utils.Result {
	booking, err := c.BookingRepository.FindByID(ctx, id)
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), "GetBooking", utils.ConvertString(id))
		return repositoryFailure(err, "Booking not found")
	}
	if !actor.CanAccess(booking.UserID) {
		return failure(httpError.NewForbidden(), "Not authorized to access this booking")
	}
	return utils.Result{Data: booking}
}

// ListBookings returns every booking for admins and the caller's own otherwise.
func (c *BookingUseCase) ListBookings(ctx context.Context, actor model.Actor, status string, paging model.Paging) utils.Result {
	filter := entity.BookingFilter{Skip: paging.Skip, Limit: paging.Limit}
	if !actor.IsAdmin() {
		filter.UserID = &actor.UserID
	}
	if status != "" {
		filter.Status = &status
	}
	return c.list(ctx, filter)
}

func (c *BookingUseCase) ListMyBookings(ctx context.Context, actor model.Actor, paging model.Paging) utils.Result {
	return c.list(ctx, entity.BookingFilter{UserID: &actor.UserID, Skip: paging.Skip, Limit: paging.Limit})
}

func (c *BookingUseCase) list(ctx context.Context, filter entity.BookingFilter) utils.Result {
	filter.Skip, filter.Limit = utils.Paging(filter.Skip, filter.Limit)
	bookings, err := c.BookingRepository.List(ctx, filter)
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), "ListBookings", utils.ConvertString(filter))
		return failure(httpError.NewInternalServerError(), err.Error())
	}
	return utils.Result{Data: bookings}
}

func (c *BookingUseCase) CancelBooking(ctx context.Context, actor model.Actor, id int64) utils.Result {
	booking, err := c.BookingRepository.FindByID(ctx, id)
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), "CancelBooking", utils.ConvertString(id))
		return repositoryFailure(err, "Booking not found")
	}
	if !actor.CanAccess(booking.UserID) {
		return failure(httpError.NewForbidden(), "Not authorized to cancel this booking")
	}
	if booking.Closed() {
		return failure(httpError.NewBadRequest(), "Cannot cancel completed or already cancelled booking")
	}

	var moved bool
	err = c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
		moved, err = c.BookingRepository.UpdateStatus(ctx, tx, id,
			[]string{entity.BookingPending, entity.BookingConfirmed}, entity.BookingCancelled)
		return err
	})
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), "CancelBooking", utils.ConvertString(id))
		return failure(httpError.NewInternalServerError(), err.Error())
	}
	if !moved {
		return failure(httpError.NewConflict(), "Booking status changed, please retry")
	}

	c.Log.Info("booking-usecase", "booking cancelled", "CancelBooking", utils.ConvertString(id))
	return utils.Result{Data: map[string]string{"message": "Booking cancelled successfully"}}
}

func (c *BookingUseCase) ConfirmBooking(ctx context.Context, id int64) utils.Result {
	booking, err := c.BookingRepository.FindByID(ctx, id)
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), "ConfirmBooking", utils.ConvertString(id))
		return repositoryFailure(err, "Booking not found")
	}
	if booking.Status != entity.BookingPending {
		return failure(httpError.NewBadRequest(), "Only pending bookings can be confirmed")
	}

	var moved bool
	err = c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
		moved, err = c.BookingRepository.UpdateStatus(ctx, tx, id, []string{entity.BookingPending}, entity.BookingConfirmed)
		return err
	})
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), "ConfirmBooking", utils.ConvertString(id))
		return failure(httpError.NewInternalServerError(), err.Error())
	}
	if !moved {
		return failure(httpError.NewBadRequest(), "Only pending bookings can be confirmed")
	}

	c.Dispatcher.Dispatch(ctx, model.NotificationEvent{Kind: model.ReferenceBooking, ID: id, Event: model.NotifyConfirmed})
	return utils.Result{Data: map[string]string{"message": "Booking confirmed successfully"}}
}

func (c *BookingUseCase) CompleteBooking(ctx context.Context, id int64, request *model.CompleteBookingRequest) utils.Result {
	if err := c.Validate.Struct(request); err != nil {
		c.Log.Error("booking-usecase", err.Error(), "CompleteBooking", utils.ConvertString(request))
		return validationFailure(err)
	}

	booking, err := c.BookingRepository.FindByID(ctx, id)
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), "CompleteBooking", utils.ConvertString(id))
		return repositoryFailure(err, "Booking not found")
	}
	if booking.Status != entity.BookingConfirmed {
		return failure(httpError.NewBadRequest(), "Only confirmed bookings can be completed")
	}

	var moved bool
	err = c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
		moved, err = c.BookingRepository.Complete(ctx, tx, id, request.PujaLink)
		return err
	})
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), "CompleteBooking", utils.ConvertString(id))
		return failure(httpError.NewInternalServerError(), err.Error())
	}
	if !moved {
		return failure(httpError.NewBadRequest(), "Only confirmed bookings can be completed")
	}

	c.Dispatcher.Dispatch(ctx, model.NotificationEvent{Kind: model.ReferenceBooking, ID: id, Event: model.NotifyCompleted})
	return utils.Result{Data: map[string]string{"message": "Booking completed successfully"}}
}

func (c *BookingUseCase) UpdateBooking(ctx context.Context, id int64, patch *model.BookingPatch) utils.Result {
	if err := c.Validate.Struct(patch); err != nil {
		c.Log.Error("booking-usecase", err.Error(), "UpdateBooking", utils.ConvertString(patch))
		return validationFailure(err)
	}

	booking, err := c.BookingRepository.FindByID(ctx, id)
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), "UpdateBooking", utils.ConvertString(id))
		return repositoryFailure(err, "Booking not found")
	}

	changed := patch.Status != nil && *patch.Status != booking.Status
	if changed && !slices.Contains(bookingTransitions[booking.Status], *patch.Status) {
		return failure(httpError.NewBadRequest(), fmt.Sprintf("Cannot move booking from %s to %s", booking.Status, *patch.Status))
	}
	if changed && *patch.Status == entity.BookingCompleted && patch.PujaLink == nil && booking.PujaLink == nil {
		return failure(httpError.NewBadRequest(), "A puja link is required to complete a booking")
	}

	cols := patch.Columns()
	if len(cols) == 0 {
		return utils.Result{Data: booking}
	}

	var moved bool
	err = c.Tx.WithinTx(ctx, func(tx repository.Executor) error {
		moved, err = c.BookingRepository.Patch(ctx, tx, id, booking.Status, cols)
		return err
	})
	if err != nil {
		c.Log.Error("booking-usecase", err.Error(), "UpdateBooking", utils.ConvertString(patch))
		return failure(httpError.NewInternalServerError(), err.Error())
	}
	if !moved {
		return repositoryFailure(repository.ErrStaleState, "")
	}

	if changed {
		switch *patch.Status {
		case entity.BookingConfirmed:
			c.Dispatcher.Dispatch(ctx, model.NotificationEvent{Kind: model.ReferenceBooking, ID: id, Event: model.NotifyConfirmed})
		case entity.BookingCompleted:
			c.Dispatcher.Dispatch(ctx, model.NotificationEvent{Kind: model.ReferenceBooking, ID: id, Event: model.NotifyCompleted})
		}
	}

	updated, err := c.BookingRepository.FindByID(ctx, id)
	if err != nil {
		return repositoryFailure(err, "Booking not found")
	}
	return utils.Result{Data: updated}
}
