package middleware

import (
	"strings"

	"kotidham-service/src/internal/model"
	httpError "kotidham-service/src/pkg/http-error"
	"kotidham-service/src/pkg/token"
	"kotidham-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

const authKey = "auth"

// NewAuth verifies the bearer token and stores the caller in the request locals.
func NewAuth(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		scheme, tokenString, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tokenString) == "" {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "Could not validate credentials"
			return utils.ResponseError(errObj, ctx)
		}

		claim, err := token.Parse(strings.TrimSpace(tokenString), secret)
		if err != nil {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "Could not validate credentials"
			return utils.ResponseError(errObj, ctx)
		}

		ctx.Locals(authKey, model.Actor{UserID: claim.UserID, Role: claim.Role})
		return ctx.Next()
	}
}

// AdminOnly must run after NewAuth.
func AdminOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !GetUser(ctx).IsAdmin() {
			errObj := httpError.NewForbidden()
			errObj.Message = "Admin access required"
			return utils.ResponseError(errObj, ctx)
		}
		return ctx.Next()
	}
}

func GetUser(ctx *fiber.Ctx) model.Actor {
	actor, _ := ctx.Locals(authKey).(model.Actor)
	return actor
}
