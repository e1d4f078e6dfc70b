package http

import (
	"kotidham-service/src/internal/delivery/http/middleware"
	"kotidham-service/src/internal/model"
	"kotidham-service/src/internal/usecase"
	"kotidham-service/src/pkg/log"
	"kotidham-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type BookingController struct {
	Log     log.Log
	UseCase *usecase.BookingUseCase
}

func NewBookingController(useCase *usecase.BookingUseCase, logger log.Log) *BookingController {
	return &BookingController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *BookingController) Create(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CreateBookingRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("BookingController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	result := c.UseCase.CreateBooking(ctx.UserContext(), auth, request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Booking created", fiber.StatusCreated, ctx)
}

func (c *BookingController) Checkout(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CreateBookingRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("BookingController.Checkout", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	result := c.UseCase.Checkout(ctx.UserContext(), auth, request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Checkout", fiber.StatusCreated, ctx)
}

func (c *BookingController) List(ctx *fiber.Ctx) error {
	result := c.UseCase.ListBookings(ctx.UserContext(), middleware.GetUser(ctx), ctx.Query("status"), paging(ctx))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Bookings", fiber.StatusOK, ctx)
}

func (c *BookingController) ListMine(ctx *fiber.Ctx) error {
	result := c.UseCase.ListMyBookings(ctx.UserContext(), middleware.GetUser(ctx), paging(ctx))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "My Bookings", fiber.StatusOK, ctx)
}

func (c *BookingController) Get(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.GetBooking(ctx.UserContext(), middleware.GetUser(ctx), id)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Booking", fiber.StatusOK, ctx)
}

func (c *BookingController) Cancel(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.CancelBooking(ctx.UserContext(), middleware.GetUser(ctx), id)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Booking cancelled", fiber.StatusOK, ctx)
}

func (c *BookingController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	patch := new(model.BookingPatch)
	if err := ctx.BodyParser(patch); err != nil {
		c.Log.Error("BookingController.Update", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	result := c.UseCase.UpdateBooking(ctx.UserContext(), id, patch)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Booking updated", fiber.StatusOK, ctx)
}

func (c *BookingController) Confirm(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.ConfirmBooking(ctx.UserContext(), id)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Booking confirmed", fiber.StatusOK, ctx)
}

func (c *BookingController) Complete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	request := new(model.CompleteBookingRequest)
	if err := parseAll(ctx, request); err != nil {
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.CompleteBooking(ctx.UserContext(), id, request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Booking completed", fiber.StatusOK, ctx)
}
