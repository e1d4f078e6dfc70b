package config

import (
	"kotidham-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

func NewFiber(cfg *AppConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Prefork:      cfg.Web.Prefork,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return utils.ResponseError(err, ctx)
		},
	})
}
