package http

import (
	"kotidham-service/src/internal/model"
	httpError "kotidham-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

func paramID(ctx *fiber.Ctx, name string) (int64, error) {
	id, err := ctx.ParamsInt(name)
	if err != nil || id <= 0 {
		errObj := httpError.NewBadRequest()
		errObj.Message = "Invalid " + name
		return 0, errObj
	}
	return int64(id), nil
}

func paging(ctx *fiber.Ctx) model.Paging {
	return model.Paging{Skip: ctx.QueryInt("skip", 0), Limit: ctx.QueryInt("limit", 100)}
}

func badBody(err error) error {
	errObj := httpError.NewBadRequest()
	errObj.Message = "Invalid request body: " + err.Error()
	return errObj
}

// parseAll fills request from the query string and, when present, the body.
func parseAll(ctx *fiber.Ctx, request interface{}) error {
	if err := ctx.QueryParser(request); err != nil {
		return badBody(err)
	}
	if len(ctx.Body()) == 0 {
		return nil
	}
	if err := ctx.BodyParser(request); err != nil {
		return badBody(err)
	}
	return nil
}
