package usecase

import (
	"context"
	"errors"
	"time"

	"kotidham-service/src/internal/gateway/payment"
	"kotidham-service/src/internal/model"
	"kotidham-service/src/internal/repository"
	httpError "kotidham-service/src/pkg/http-error"
	"kotidham-service/src/pkg/utils"
)

// PaymentGateway is the remote payment provider. *payment.Razorpay implements it.
type PaymentGateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (payment.GatewayOrder, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
	Refund(ctx context.Context, gatewayPaymentID string, amountMinor int64) (string, error)
}

type NotificationDispatcher interface {
	Dispatch(ctx context.Context, event model.NotificationEvent)
}

type PaymentEventPublisher interface {
	PublishPayment(ctx context.Context, event *model.PaymentEvent) error
}

type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

func failure(errObj *httpError.CommonError, message string) utils.Result {
	errObj.Message = message
	return utils.Result{Error: errObj}
}

func validationFailure(err error) utils.Result {
	return failure(httpError.NewBadRequest(), "validation error: "+err.Error())
}

// repositoryFailure maps repository sentinels onto http errors.
func repositoryFailure(err error, notFoundMessage string) utils.Result {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return failure(httpError.NewNotFound(), notFoundMessage)
	case errors.Is(err, repository.ErrDuplicate):
		return failure(httpError.NewConflict(), "record already exists")
	case errors.Is(err, repository.ErrInUse):
		return failure(httpError.NewConflict(), "record is still referenced")
	case errors.Is(err, repository.ErrStaleState):
		return failure(httpError.NewConflict(), "record was modified concurrently, please retry")
	}
	return failure(httpError.NewInternalServerError(), err.Error())
}
