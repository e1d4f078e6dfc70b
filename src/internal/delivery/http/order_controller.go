package http

import (
	"kotidham-service/src/internal/delivery/http/middleware"
	"kotidham-service/src/internal/model"
	"kotidham-service/src/internal/usecase"
	"kotidham-service/src/pkg/log"
	"kotidham-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type OrderController struct {
	Log     log.Log
	UseCase *usecase.OrderUseCase
}

func NewOrderController(useCase *usecase.OrderUseCase, logger log.Log) *OrderController {
	return &OrderController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *OrderController) Create(ctx *fiber.Ctx) error {
	request := new(model.CreateOrderRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("OrderController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	result := c.UseCase.CreateOrder(ctx.UserContext(), middleware.GetUser(ctx), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order placed", fiber.StatusCreated, ctx)
}

func (c *OrderController) ListMine(ctx *fiber.Ctx) error {
	request := new(model.OrderListRequest)
	if err := ctx.QueryParser(request); err != nil {
		return utils.ResponseError(badBody(err), ctx)
	}
	result := c.UseCase.ListMyOrders(ctx.UserContext(), middleware.GetUser(ctx), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Orders", fiber.StatusOK, ctx)
}

func (c *OrderController) ListAll(ctx *fiber.Ctx) error {
	request := new(model.OrderListRequest)
	if err := ctx.QueryParser(request); err != nil {
		return utils.ResponseError(badBody(err), ctx)
	}
	result := c.UseCase.ListAllOrders(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Orders", fiber.StatusOK, ctx)
}

func (c *OrderController) Get(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.GetOrder(ctx.UserContext(), middleware.GetUser(ctx), id)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order", fiber.StatusOK, ctx)
}

func (c *OrderController) Cancel(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	result := c.UseCase.CancelOrder(ctx.UserContext(), middleware.GetUser(ctx), id)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order cancelled", fiber.StatusOK, ctx)
}

func (c *OrderController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	patch := new(model.OrderPatch)
	if err := ctx.BodyParser(patch); err != nil {
		c.Log.Error("OrderController.Update", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	result := c.UseCase.UpdateOrder(ctx.UserContext(), id, patch)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, "Order updated", fiber.StatusOK, ctx)
}
