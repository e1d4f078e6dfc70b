package http

import (
	"kotidham-service/src/internal/delivery/http/middleware"
	"kotidham-service/src/internal/model"
	"kotidham-service/src/internal/usecase"
	"kotidham-service/src/pkg/log"
	"kotidham-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type PaymentController struct {
	Log     log.Log
	UseCase *usecase.PaymentUseCase
}

func NewPaymentController(useCase *usecase.PaymentUseCase, logger log.Log) *PaymentController {
	return &PaymentController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *PaymentController) CreateOrder(ctx *fiber.Ctx) error {
	request := new(model.CreatePaymentRequest)
	if err := parseAll(ctx, request); err != nil {
		c.Log.Error("PaymentController.CreateOrder", "Failed to parse request", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.CreateBookingPayment(ctx.UserContext(), middleware.GetUser(ctx), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Payment order created", fiber.StatusOK, ctx)
}

// Verify accepts the checkout callback fields from the query string, a form or a JSON body.
func (c *PaymentController) Verify(ctx *fiber.Ctx) error {
	request := new(model.VerifyPaymentRequest)
	if err := parseAll(ctx, request); err != nil {
		c.Log.Error("PaymentController.Verify", "Failed to parse request", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.VerifyBookingPayment(ctx.UserContext(), middleware.GetUser(ctx), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Payment verified successfully", fiber.StatusOK, ctx)
}

func (c *PaymentController) Get(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.GetPayment(ctx.UserContext(), middleware.GetUser(ctx), id)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Payment", fiber.StatusOK, ctx)
}

func (c *PaymentController) GetByBooking(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "bookingId")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.GetPaymentByBooking(ctx.UserContext(), middleware.GetUser(ctx), id)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Payment", fiber.StatusOK, ctx)
}

func (c *PaymentController) List(ctx *fiber.Ctx) error {
	result := c.UseCase.ListPayments(ctx.UserContext(), ctx.Query("status"), paging(ctx))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Payments", fiber.StatusOK, ctx)
}

func (c *PaymentController) Refund(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.RefundBookingPayment(ctx.UserContext(), id)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Payment refunded", fiber.StatusOK, ctx)
}

func (c *PaymentController) CreateOrderPayment(ctx *fiber.Ctx) error {
	request := new(model.CreateOrderPaymentRequest)
	if err := parseAll(ctx, request); err != nil {
		c.Log.Error("PaymentController.CreateOrderPayment", "Failed to parse request", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.CreateOrderPayment(ctx.UserContext(), middleware.GetUser(ctx), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Razorpay order created", fiber.StatusOK, ctx)
}

func (c *PaymentController) VerifyOrderPayment(ctx *fiber.Ctx) error {
	request := new(model.VerifyPaymentRequest)
	if err := parseAll(ctx, request); err != nil {
		c.Log.Error("PaymentController.VerifyOrderPayment", "Failed to parse request", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.VerifyOrderPayment(ctx.UserContext(), middleware.GetUser(ctx), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Payment verified successfully", fiber.StatusOK, ctx)
}

func (c *PaymentController) OrderPaymentStatus(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "orderId")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.GetOrderPaymentStatus(ctx.UserContext(), middleware.GetUser(ctx), id)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Payment status", fiber.StatusOK, ctx)
}
