package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	httpError "kotidham-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

// Result is what every usecase returns to its controller.
type Result struct {
	Data  interface{}
	Error error
}

type BaseResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
}

func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(BaseResponse{
		Success: true,
		Data:    data,
		Message: message,
		Code:    code,
	})
}

func ResponseError(err error, ctx *fiber.Ctx) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var commonErr *httpError.CommonError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &commonErr):
		code = commonErr.Code
		message = commonErr.Message
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case err != nil:
		message = err.Error()
	}

	return ctx.Status(code).JSON(BaseResponse{
		Success: false,
		Data:    nil,
		Message: message,
		Code:    code,
	})
}

// ConvertString renders any value for log meta fields.
func ConvertString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case error:
		return t.Error()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

func ConvertInt(v interface{}) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		i, err := strconv.Atoi(t)
		if err != nil {
			return 0
		}
		return i
	}
	return 0
}

// Paging clamps skip/limit query values the way the listing endpoints expect.
func Paging(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 100 {
		limit = 100
	}
	return skip, limit
}
