package middleware

import (
	"fmt"
	"time"

	"kotidham-service/src/pkg/log"

	"github.com/gofiber/fiber/v2"
)

const slowRequest = 2 * time.Second

func NewLogger(logger log.Log) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()
		elapsed := time.Since(start)

		meta := fmt.Sprintf("%s %s %d %s", ctx.Method(), ctx.OriginalURL(), ctx.Response().StatusCode(), elapsed)
		switch {
		case err != nil:
			logger.Error("http", err.Error(), ctx.Route().Path, meta)
		case elapsed > slowRequest:
			logger.Slow("http", "slow request", ctx.Route().Path, meta)
		default:
			logger.Info("http", "request", ctx.Route().Path, meta)
		}
		return err
	}
}
