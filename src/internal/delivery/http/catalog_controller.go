package http

import (
	"context"

	"kotidham-service/src/internal/delivery/http/middleware"
	"kotidham-service/src/internal/model"
	"kotidham-service/src/internal/usecase"
	"kotidham-service/src/pkg/log"
	"kotidham-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// CatalogController serves the public catalog, the admin catalog CRUD and promo validation.
type CatalogController struct {
	Log     log.Log
	UseCase *usecase.CatalogUseCase
}

func NewCatalogController(useCase *usecase.CatalogUseCase, logger log.Log) *CatalogController {
	return &CatalogController{
		Log:     logger,
		UseCase: useCase,
	}
}

func respond(ctx *fiber.Ctx, result utils.Result, message string, code int) error {
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}
	return utils.Response(result.Data, message, code, ctx)
}

func withBody[T any](c *CatalogController, scope, message string, call func(context.Context, *T) utils.Result) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		request := new(T)
		if err := ctx.BodyParser(request); err != nil {
			c.Log.Error(scope, "Failed to parse request body", "error", err.Error())
			return utils.ResponseError(badBody(err), ctx)
		}
		return respond(ctx, call(ctx.UserContext(), request), message, fiber.StatusCreated)
	}
}

func withID(message string, call func(context.Context, int64) utils.Result) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "id")
		if err != nil {
			return utils.ResponseError(err, ctx)
		}
		return respond(ctx, call(ctx.UserContext(), id), message, fiber.StatusOK)
	}
}

func withIDBody[T any](c *CatalogController, scope, message string, call func(context.Context, int64, *T) utils.Result) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := paramID(ctx, "id")
		if err != nil {
			return utils.ResponseError(err, ctx)
		}
		patch := new(T)
		if err := ctx.BodyParser(patch); err != nil {
			c.Log.Error(scope, "Failed to parse request body", "error", err.Error())
			return utils.ResponseError(badBody(err), ctx)
		}
		return respond(ctx, call(ctx.UserContext(), id, patch), message, fiber.StatusOK)
	}
}

// listing serves the public list (active only) or the admin list (active_only query flag).
func listing(admin bool, message string, call func(context.Context, bool, model.Paging) utils.Result) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		activeOnly := true
		if admin {
			activeOnly = ctx.QueryBool("active_only", false)
		}
		return respond(ctx, call(ctx.UserContext(), activeOnly, paging(ctx)), message, fiber.StatusOK)
	}
}

func (c *CatalogController) ListPujas(ctx *fiber.Ctx) error {
	return listing(false, "Pujas", c.UseCase.ListPujas)(ctx)
}

func (c *CatalogController) GetPuja(ctx *fiber.Ctx) error {
	return withID("Puja", c.UseCase.GetPuja)(ctx)
}

func (c *CatalogController) ListTemples(ctx *fiber.Ctx) error {
	return listing(false, "Temples", c.UseCase.ListTemples)(ctx)
}

func (c *CatalogController) GetTemple(ctx *fiber.Ctx) error {
	return withID("Temple", c.UseCase.GetTemple)(ctx)
}

func (c *CatalogController) ListPlans(ctx *fiber.Ctx) error {
	return respond(ctx, c.UseCase.ListPlans(ctx.UserContext(), paging(ctx)), "Plans", fiber.StatusOK)
}

func (c *CatalogController) ListChadawas(ctx *fiber.Ctx) error {
	return respond(ctx, c.UseCase.ListChadawas(ctx.UserContext(), paging(ctx)), "Chadawas", fiber.StatusOK)
}

func (c *CatalogController) ListProducts(ctx *fiber.Ctx) error {
	return listing(false, "Products", c.UseCase.ListProducts)(ctx)
}

func (c *CatalogController) GetProduct(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	return respond(ctx, c.UseCase.GetProduct(ctx.UserContext(), id, false), "Product", fiber.StatusOK)
}

func (c *CatalogController) AdminGetProduct(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}
	return respond(ctx, c.UseCase.GetProduct(ctx.UserContext(), id, true), "Product", fiber.StatusOK)
}

func (c *CatalogController) ValidatePromo(ctx *fiber.Ctx) error {
	request := new(model.ValidatePromoRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("CatalogController.ValidatePromo", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(badBody(err), ctx)
	}
	return respond(ctx, c.UseCase.ValidatePromo(ctx.UserContext(), middleware.GetUser(ctx), request), "Promo code", fiber.StatusOK)
}

// SetupAdmin mounts the catalog CRUD on an admin-only router.
func (c *CatalogController) SetupAdmin(router fiber.Router) {
	u := c.UseCase

	pujas := router.Group("/pujas")
	pujas.Get("/", listing(true, "Pujas", u.ListPujas))
	pujas.Post("/", withBody(c, "CatalogController.CreatePuja", "Puja created", u.CreatePuja))
	pujas.Get("/:id", withID("Puja", u.GetPuja))
	pujas.Put("/:id", withIDBody(c, "CatalogController.UpdatePuja", "Puja updated", u.UpdatePuja))
	pujas.Delete("/:id", withID("Puja deleted", u.DeletePuja))

	temples := router.Group("/temples")
	temples.Get("/", listing(true, "Temples", u.ListTemples))
	temples.Post("/", withBody(c, "CatalogController.CreateTemple", "Temple created", u.CreateTemple))
	temples.Get("/:id", withID("Temple", u.GetTemple))
	temples.Put("/:id", withIDBody(c, "CatalogController.UpdateTemple", "Temple updated", u.UpdateTemple))
	temples.Delete("/:id", withID("Temple deleted", u.DeleteTemple))

	plans := router.Group("/plans")
	plans.Get("/", c.ListPlans)
	plans.Post("/", withBody(c, "CatalogController.CreatePlan", "Plan created", u.CreatePlan))
	plans.Get("/:id", withID("Plan", u.GetPlan))
	plans.Put("/:id", withIDBody(c, "CatalogController.UpdatePlan", "Plan updated", u.UpdatePlan))
	plans.Delete("/:id", withID("Plan deleted", u.DeletePlan))

	chadawas := router.Group("/chadawas")
	chadawas.Get("/", c.ListChadawas)
	chadawas.Post("/", withBody(c, "CatalogController.CreateChadawa", "Chadawa created", u.CreateChadawa))
	chadawas.Get("/:id", withID("Chadawa", u.GetChadawa))
	chadawas.Put("/:id", withIDBody(c, "CatalogController.UpdateChadawa", "Chadawa updated", u.UpdateChadawa))
	chadawas.Delete("/:id", withID("Chadawa deleted", u.DeleteChadawa))

	products := router.Group("/products")
	products.Get("/", listing(true, "Products", u.ListProducts))
	products.Post("/", withBody(c, "CatalogController.CreateProduct", "Product created", u.CreateProduct))
	products.Get("/:id", c.AdminGetProduct)
	products.Put("/:id", withIDBody(c, "CatalogController.UpdateProduct", "Product updated", u.UpdateProduct))
	products.Delete("/:id", withID("Product deleted", u.DeleteProduct))

	promos := router.Group("/promo-codes")
	promos.Get("/", listing(true, "Promo codes", u.ListPromoCodes))
	promos.Post("/", withBody(c, "CatalogController.CreatePromoCode", "Promo code created", u.CreatePromoCode))
	promos.Get("/:id", withID("Promo code", u.GetPromoCode))
	promos.Put("/:id", withIDBody(c, "CatalogController.UpdatePromoCode", "Promo code updated", u.UpdatePromoCode))
	promos.Delete("/:id", withID("Promo code deleted", u.DeletePromoCode))
}
