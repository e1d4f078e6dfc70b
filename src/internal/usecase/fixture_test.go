package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"kotidham-service/src/internal/gateway/payment"
	"kotidham-service/src/internal/model"
	"kotidham-service/src/internal/repository"
	"kotidham-service/src/internal/repository/repositorytest"
	"kotidham-service/src/internal/usecase"
	"kotidham-service/src/pkg/log"
	redisPkg "kotidham-service/src/pkg/redis"

	"github.com/go-playground/validator/v10"
)

const testSecret = "rzp_secret"

type fakeGateway struct {
	mu        sync.Mutex
	orders    []int64
	createErr error
	refunds   []string
	refundErr error
}

func (f *fakeGateway) KeyID() string { return "rzp_test_key" }

func (f *fakeGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (payment.GatewayOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return payment.GatewayOrder{}, f.createErr
	}
	f.orders = append(f.orders, amountMinor)
	return payment.GatewayOrder{
		ID:          fmt.Sprintf("order_%d", len(f.orders)),
		AmountMinor: amountMinor,
		Currency:    currency,
		Receipt:     receipt,
		Status:      "created",
	}, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return payment.VerifySignature(testSecret, orderID, paymentID, signature)
}

func (f *fakeGateway) Refund(ctx context.Context, paymentID string, amountMinor int64) (string, error) {
	if f.refundErr != nil {
		return "", f.refundErr
	}
	f.refunds = append(f.refunds, paymentID)
	return "rfnd_" + paymentID, nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []model.NotificationEvent
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, event model.NotificationEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeDispatcher) Events() []model.NotificationEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.NotificationEvent(nil), f.events...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*model.PaymentEvent
	err    error
}

func (f *fakePublisher) PublishPayment(ctx context.Context, event *model.PaymentEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func (f *fakePublisher) Types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

// fakeLocker mimics SET NX semantics in memory.
type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
	err  error
}

func (f *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.held == nil {
		f.held = map[string]bool{}
	}
	if f.held[key] {
		return nil, redisPkg.ErrLockBusy
	}
	f.held[key] = true
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.held, key)
	}, nil
}

var errGatewayDown = errors.New("gateway unavailable")

type fixture struct {
	db         *repositorytest.DB
	gateway    *fakeGateway
	dispatcher *fakeDispatcher
	publisher  *fakePublisher
	locker     *fakeLocker

	bookings *repository.BookingRepository
	orders   *repository.OrderRepository
	payments *repository.PaymentRepository

	booking *usecase.BookingUseCase
	order   *usecase.OrderUseCase
	payment *usecase.PaymentUseCase
	catalog *usecase.CatalogUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := repositorytest.New(t)
	f := &fixture{
		db:         db,
		gateway:    &fakeGateway{},
		dispatcher: &fakeDispatcher{},
		publisher:  &fakePublisher{},
		locker:     &fakeLocker{},
		bookings:   repository.NewBookingRepository(db.Conn),
		orders:     repository.NewOrderRepository(db.Conn),
		payments:   repository.NewBookingPaymentRepository(db.Conn),
	}

	logger := log.Discard()
	validate := validator.New()
	tx := repository.NewTransactor(db.Conn)
	catalog := repository.NewCatalogRepository(db.Gorm)

	f.payment = usecase.NewPaymentUseCase(logger, validate, tx, f.bookings, f.orders,
		f.payments, repository.NewOrderPaymentRepository(db.Conn),
		f.gateway, f.locker, f.dispatcher, f.publisher, "INR")
	f.booking = usecase.NewBookingUseCase(logger, validate, tx, f.bookings, catalog, f.dispatcher, f.payment)
	f.order = usecase.NewOrderUseCase(logger, validate, tx, f.orders, catalog, f.dispatcher)
	f.catalog = usecase.NewCatalogUseCase(logger, validate, catalog, f.orders)
	return f
}

func user(id int64) model.Actor {
	return model.Actor{UserID: id, Role: "user"}
}

func admin() model.Actor {
	return model.Actor{UserID: 999, Role: "admin"}
}

func ptr[T any](v T) *T {
	return &v
}

func sign(orderID, paymentID string) string {
	return payment.Sign(testSecret, orderID, paymentID)
}
