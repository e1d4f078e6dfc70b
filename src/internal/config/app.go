package config

import (
	"kotidham-service/src/internal/delivery/http"
	"kotidham-service/src/internal/delivery/http/middleware"
	"kotidham-service/src/internal/delivery/http/route"
	"kotidham-service/src/internal/gateway/messaging"
	"kotidham-service/src/internal/repository"
	"kotidham-service/src/internal/usecase"
	"kotidham-service/src/pkg/databases/mysql"
	kafkaPkg "kotidham-service/src/pkg/kafka"
	"kotidham-service/src/pkg/log"
	"kotidham-service/src/pkg/notifier"
	redisPkg "kotidham-service/src/pkg/redis"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	Gorm        *gorm.DB
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *AppConfig
	Producer    kafkaPkg.Producer
	Redis       redis.UniversalClient
	Gateway     usecase.PaymentGateway
	Notifier    *notifier.Notifier
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

func Bootstrap(config *BootstrapConfig) {
	// setup repositories
	tx := repository.NewTransactor(config.DB)
	userRepository := repository.NewUserRepository(config.DB)
	bookingRepository := repository.NewBookingRepository(config.DB)
	orderRepository := repository.NewOrderRepository(config.DB)
	bookingPayments := repository.NewBookingPaymentRepository(config.DB)
	orderPayments := repository.NewOrderPaymentRepository(config.DB)
	catalogRepository := repository.NewCatalogRepository(config.Gorm)

	// setup gateways
	paymentProducer := messaging.NewPaymentProducer(config.Producer, config.Config.Kafka.PaymentTopic, config.Log)
	dispatcher := messaging.NewNotificationDispatcher(config.AsynqClient, config.Config.Notification.Queue,
		config.Config.Notification.MaxRetry, config.Log)
	locker := redisPkg.NewLocker(config.Redis)

	// setup use cases
	paymentUseCase := usecase.NewPaymentUseCase(
		config.Log,
		config.Validate,
		tx,
		bookingRepository,
		orderRepository,
		bookingPayments,
		orderPayments,
		config.Gateway,
		locker,
		dispatcher,
		paymentProducer,
		config.Config.Razorpay.Currency,
	)
	bookingUseCase := usecase.NewBookingUseCase(
		config.Log,
		config.Validate,
		tx,
		bookingRepository,
		catalogRepository,
		dispatcher,
		paymentUseCase,
	)
	orderUseCase := usecase.NewOrderUseCase(
		config.Log,
		config.Validate,
		tx,
		orderRepository,
		catalogRepository,
		dispatcher,
	)
	catalogUseCase := usecase.NewCatalogUseCase(
		config.Log,
		config.Validate,
		catalogRepository,
		orderRepository,
	)
	notificationUseCase := usecase.NewNotificationUseCase(
		config.Log,
		bookingRepository,
		orderRepository,
		userRepository,
		config.Notifier,
	)

	// setup worker
	config.Async.HandleFunc(messaging.TypeNotificationSend, notificationUseCase.HandleNotification)

	// setup controller
	routeConfig := route.RouteConfig{
		App:               config.App,
		Log:               config.Log,
		BookingController: http.NewBookingController(bookingUseCase, config.Log),
		PaymentController: http.NewPaymentController(paymentUseCase, config.Log),
		OrderController:   http.NewOrderController(orderUseCase, config.Log),
		CatalogController: http.NewCatalogController(catalogUseCase, config.Log),
		AuthMiddleware:    middleware.NewAuth(config.Config.JWT.Secret),
	}
	routeConfig.Setup()
}
