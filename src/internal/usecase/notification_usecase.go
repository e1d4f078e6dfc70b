package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"

	"kotidham-service/src/internal/entity"
	"kotidham-service/src/internal/model"
	"kotidham-service/src/internal/repository"
	"kotidham-service/src/pkg/log"
	"kotidham-service/src/pkg/notifier"
	"kotidham-service/src/pkg/utils"

	"github.com/hibiken/asynq"
)

// MessageSender is implemented by *notifier.Notifier.
type MessageSender interface {
	SendEmail(ctx context.Context, to, subject, html string) error
	SendWhatsApp(ctx context.Context, to, body string) error
}

type message struct {
	phone   string
	email   string
	subject string
	text    string
	html    string
}

type NotificationUseCase struct {
	Log               log.Log
	BookingRepository *repository.BookingRepository
	OrderRepository   *repository.OrderRepository
	UserRepository    *repository.UserRepository
	Sender            MessageSender
}

func NewNotificationUseCase(
	logger log.Log,
	bookingRepository *repository.BookingRepository,
	orderRepository *repository.OrderRepository,
	userRepository *repository.UserRepository,
	sender MessageSender,
) *NotificationUseCase {
	return &NotificationUseCase{
		Log:               logger,
		BookingRepository: bookingRepository,
		OrderRepository:   orderRepository,
		UserRepository:    userRepository,
		Sender:            sender,
	}
}

// HandleNotification is the asynq handler for notification tasks.
func (c *NotificationUseCase) HandleNotification(ctx context.Context, task *asynq.Task) error {
	var event model.NotificationEvent
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		c.Log.Error("notification-usecase", err.Error(), "HandleNotification", string(task.Payload()))
		return fmt.Errorf("malformed notification payload: %w", asynq.SkipRetry)
	}

	var (
		msg *message
		err error
	)
	switch event.Kind {
	case model.ReferenceBooking:
		msg, err = c.bookingMessage(ctx, event)
	case model.ReferenceOrder:
		msg, err = c.orderMessage(ctx, event)
	default:
		err = fmt.Errorf("unknown notification kind %q: %w", event.Kind, asynq.SkipRetry)
	}
	if errors.Is(err, repository.ErrNotFound) {
		c.Log.Info("notification-usecase", "notification target is gone", "HandleNotification", utils.ConvertString(event))
		return nil
	}
	if err != nil {
		c.Log.Error("notification-usecase", err.Error(), "HandleNotification", utils.ConvertString(event))
		return err
	}
	if msg.phone == "" && msg.email == "" {
		c.Log.Info("notification-usecase", "no contact for notification", "HandleNotification", utils.ConvertString(event))
		return nil
	}

	return c.deliver(ctx, event, msg)
}

// deliver succeeds when at least one channel accepted the message.
func (c *NotificationUseCase) deliver(ctx context.Context, event model.NotificationEvent, msg *message) error {
	var errs []error
	sent := false

	if msg.phone != "" {
		switch err := c.Sender.SendWhatsApp(ctx, msg.phone, msg.text); {
		case err == nil:
			sent = true
		case !errors.Is(err, notifier.ErrDisabled):
			errs = append(errs, err)
		}
	}
	if msg.email != "" && msg.html != "" {
		switch err := c.Sender.SendEmail(ctx, msg.email, msg.subject, msg.html); {
		case err == nil:
			sent = true
		case !errors.Is(err, notifier.ErrDisabled):
			errs = append(errs, err)
		}
	}

	if !sent && len(errs) > 0 {
		err := errors.Join(errs...)
		c.Log.Error("notification-usecase", err.Error(), "deliver", utils.ConvertString(event))
		return err
	}
	c.Log.Info("notification-usecase", "notification delivered", "deliver", utils.ConvertString(event))
	return nil
}

func (c *NotificationUseCase) user(ctx context.Context, id int64) (*entity.User, error) {
	user, err := c.UserRepository.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return &entity.User{ID: id}, nil
	}
	return user, err
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}

func (c *NotificationUseCase) bookingMessage(ctx context.Context, event model.NotificationEvent) (*message, error) {
	booking, err := c.BookingRepository.FindByID(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	user, err := c.user(ctx, booking.UserID)
	if err != nil {
		return nil, err
	}

	msg := &message{
		phone: firstNonEmpty(booking.WhatsappNumber, booking.MobileNumber, &user.Mobile),
		email: firstNonEmpty(user.Email),
	}
	name := html.EscapeString(user.Name)

	switch event.Event {
	case model.NotifyPending:
		msg.text = fmt.Sprintf("Your puja booking #%d has been received and is awaiting confirmation. Thank you for choosing 33 Koti Dham!", booking.ID)
	case model.NotifyConfirmed:
		msg.text = fmt.Sprintf("Your puja booking #%d has been confirmed. Thank you for choosing 33 Koti Dham!", booking.ID)
		msg.subject = "Booking Confirmation - 33 Koti Dham"
		msg.html = fmt.Sprintf(`<html><body>
<h2>Booking Confirmation</h2>
<p>Dear %s,</p>
<p>Your puja booking has been confirmed!</p>
<p><strong>Booking ID:</strong> #%d</p>
<p>We will notify you once your puja is scheduled.</p>
<p>Thank you for choosing 33 Koti Dham!</p>
<br>
<p>Best regards,<br>33 Koti Dham Team</p>
</body></html>`, name, booking.ID)
	case model.NotifyCompleted:
		link := firstNonEmpty(booking.PujaLink)
		msg.text = fmt.Sprintf("Your puja (booking #%d) has been completed. %s", booking.ID, link)
		linkHTML := ""
		if link != "" {
			linkHTML = fmt.Sprintf(`<p><strong>Puja Link:</strong> <a href="%s">View Puja</a></p>`, html.EscapeString(link))
		}
		msg.subject = "Your Puja is Complete - 33 Koti Dham"
		msg.html = fmt.Sprintf(`<html><body>
<h2>Puja Completed</h2>
<p>Dear %s,</p>
<p>Your puja (Booking ID: #%d) has been completed successfully!</p>
%s
<p>Thank you for your devotion and for choosing 33 Koti Dham!</p>
<br>
<p>Best regards,<br>33 Koti Dham Team</p>
</body></html>`, name, booking.ID, linkHTML)
	default:
		return nil, fmt.Errorf("unknown booking event %q: %w", event.Event, asynq.SkipRetry)
	}
	return msg, nil
}

func (c *NotificationUseCase) orderMessage(ctx context.Context, event model.NotificationEvent) (*message, error) {
	order, err := c.OrderRepository.FindByID(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	user, err := c.user(ctx, order.UserID)
	if err != nil {
		return nil, err
	}

	msg := &message{
		phone: firstNonEmpty(&order.ShippingPhone, &user.Mobile),
		email: firstNonEmpty(order.ShippingEmail, user.Email),
	}
	name := html.EscapeString(order.ShippingName)
	total := order.TotalAmount.StringFixed(2)

	switch event.Event {
	case model.NotifyPending:
		msg.text = fmt.Sprintf("Your order %s for ₹%s has been placed. Thank you for shopping with 33 Koti Dham!", order.OrderNumber, total)
	case model.NotifyConfirmed:
		msg.text = fmt.Sprintf("Your order %s has been confirmed. Thank you for shopping with 33 Koti Dham!", order.OrderNumber)
		msg.subject = "Order Confirmation - 33 Koti Dham"
		msg.html = fmt.Sprintf(`<html><body>
<h2>Order Confirmation</h2>
<p>Dear %s,</p>
<p>Your order <strong>%s</strong> has been confirmed.</p>
<p><strong>Total:</strong> ₹%s</p>
<p>Thank you for shopping with 33 Koti Dham!</p>
<br>
<p>Best regards,<br>33 Koti Dham Team</p>
</body></html>`, name, html.EscapeString(order.OrderNumber), total)
	default:
		return nil, fmt.Errorf("unknown order event %q: %w", event.Event, asynq.SkipRetry)
	}
	return msg, nil
}
