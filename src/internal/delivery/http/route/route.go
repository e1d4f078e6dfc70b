package route

import (
	"kotidham-service/src/internal/delivery/http"
	"kotidham-service/src/internal/delivery/http/middleware"
	"kotidham-service/src/pkg/log"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	App               *fiber.App
	Log               log.Log
	BookingController *http.BookingController
	PaymentController *http.PaymentController
	OrderController   *http.OrderController
	CatalogController *http.CatalogController
	AuthMiddleware    fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewLogger(c.Log))
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})

	api := c.App.Group("/api/v1")
	c.SetupGuestRoute(api)
	c.SetupAuthRoute(api)
}

func (c *RouteConfig) SetupGuestRoute(api fiber.Router) {
	api.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "healthy"})
	})
	api.Get("/pujas", c.CatalogController.ListPujas)
	api.Get("/pujas/:id", c.CatalogController.GetPuja)
	api.Get("/temples", c.CatalogController.ListTemples)
	api.Get("/temples/:id", c.CatalogController.GetTemple)
	api.Get("/plans", c.CatalogController.ListPlans)
	api.Get("/chadawas", c.CatalogController.ListChadawas)
	api.Get("/products", c.CatalogController.ListProducts)
	api.Get("/products/:id", c.CatalogController.GetProduct)
}

func (c *RouteConfig) SetupAuthRoute(api fiber.Router) {
	admin := middleware.AdminOnly()
	api.Use(c.AuthMiddleware)

	api.Post("/bookings", c.BookingController.Create)
	api.Post("/bookings/checkout", c.BookingController.Checkout)
	api.Get("/bookings", c.BookingController.List)
	api.Get("/bookings/my", c.BookingController.ListMine)
	api.Get("/bookings/:id", c.BookingController.Get)
	api.Put("/bookings/:id/cancel", c.BookingController.Cancel)
	api.Put("/bookings/:id/confirm", admin, c.BookingController.Confirm)
	api.Put("/bookings/:id/complete", admin, c.BookingController.Complete)
	api.Put("/bookings/:id", admin, c.BookingController.Update)

	api.Post("/payments/create-order", c.PaymentController.CreateOrder)
	api.Post("/payments/verify", c.PaymentController.Verify)
	api.Get("/payments", admin, c.PaymentController.List)
	api.Get("/payments/booking/:bookingId", c.PaymentController.GetByBooking)
	api.Get("/payments/:id", c.PaymentController.Get)
	api.Post("/payments/:id/refund", admin, c.PaymentController.Refund)

	api.Post("/promo-codes/validate", c.CatalogController.ValidatePromo)

	api.Post("/orders", c.OrderController.Create)
	api.Get("/orders", c.OrderController.ListMine)
	api.Get("/orders/all", admin, c.OrderController.ListAll)
	api.Get("/orders/:id", c.OrderController.Get)
	api.Delete("/orders/:id", c.OrderController.Cancel)
	api.Put("/orders/:id", admin, c.OrderController.Update)

	api.Post("/order-payments/create-razorpay-order", c.PaymentController.CreateOrderPayment)
	api.Post("/order-payments/verify-payment", c.PaymentController.VerifyOrderPayment)
	api.Get("/order-payments/:orderId/payment-status", c.PaymentController.OrderPaymentStatus)

	c.CatalogController.SetupAdmin(api.Group("/admin", admin))
}
