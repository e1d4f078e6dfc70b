package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"kotidham-service/src/internal/entity"
	"kotidham-service/src/internal/model"
	"kotidham-service/src/pkg/log"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkout books a 525 INR puja for a fresh user and returns the user and the gateway order.
func checkout(t *testing.T, f *fixture) (int64, *model.CheckoutResponse) {
	t.Helper()
	userID := f.db.SeedUser(t, "Asha", "9876543210", nil)
	pujaID := f.db.SeedPuja(t, "Rudrabhishek")
	planID := f.db.SeedPlan(t, "Family", decimal.NewFromInt(525), decimal.NullDecimal{})

	res := f.booking.Checkout(context.Background(), user(userID), &model.CreateBookingRequest{PujaID: &pujaID, PlanID: &planID})
	require.NoError(t, res.Error)
	return userID, res.Data.(*model.CheckoutResponse)
}

func verifyRequest(orderID, paymentID string) *model.VerifyPaymentRequest {
	return &model.VerifyPaymentRequest{
		RazorpayOrderID:   orderID,
		RazorpayPaymentID: paymentID,
		RazorpaySignature: sign(orderID, paymentID),
	}
}

func TestVerifyBookingPaymentConfirmsBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID, co := checkout(t, f)

	res := f.payment.VerifyBookingPayment(ctx, user(userID), verifyRequest(co.Payment.RazorpayOrderID, "pay_1"))
	require.NoError(t, res.Error)
	assert.Equal(t, entity.PaymentSuccess, res.Data.(*model.VerifyPaymentResponse).Status)

	booking, err := f.bookings.FindByID(ctx, co.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingConfirmed, booking.Status)

	stored, err := f.payments.FindByReference(ctx, co.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentSuccess, stored.Status)
	assert.Equal(t, "pay_1", *stored.GatewayPaymentID)

	events := f.dispatcher.Events()
	assert.Equal(t, model.NotifyConfirmed, events[len(events)-1].Event)
	assert.Equal(t, []string{model.PaymentEventSucceeded}, f.publisher.Types())

	// a replayed callback is answered without touching state
	res = f.payment.VerifyBookingPayment(ctx, user(userID), verifyRequest(co.Payment.RazorpayOrderID, "pay_1"))
	require.NoError(t, res.Error)
	assert.Len(t, f.publisher.Types(), 1)

	res = f.payment.VerifyBookingPayment(ctx, user(userID), verifyRequest(co.Payment.RazorpayOrderID, "pay_2"))
	assert.Equal(t, http.StatusConflict, code(t, res))
}

func TestVerifyBookingPaymentBadSignature(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID, co := checkout(t, f)

	request := verifyRequest(co.Payment.RazorpayOrderID, "pay_1")
	request.RazorpaySignature = "forged"
	res := f.payment.VerifyBookingPayment(ctx, user(userID), request)
	assert.Equal(t, http.StatusBadRequest, code(t, res))
	assert.Equal(t, "Payment verification failed", res.Error.Error())

	booking, err := f.bookings.FindByID(ctx, co.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingPending, booking.Status)

	stored, err := f.payments.FindByReference(ctx, co.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentFailed, stored.Status)
	assert.Equal(t, []string{model.PaymentEventFailed}, f.publisher.Types())

	res = f.payment.VerifyBookingPayment(ctx, user(userID), verifyRequest(co.Payment.RazorpayOrderID, "pay_1"))
	assert.Equal(t, http.StatusConflict, code(t, res))

	// a failed payment can be retried against a fresh gateway order
	retry := f.payment.CreateBookingPayment(ctx, user(userID), &model.CreatePaymentRequest{BookingID: co.Booking.ID})
	require.NoError(t, retry.Error)
	reopened := retry.Data.(*model.GatewayOrderResponse)
	assert.NotEqual(t, co.Payment.RazorpayOrderID, reopened.RazorpayOrderID)
	assert.Equal(t, entity.PaymentCreated, reopened.Status)
	assert.Equal(t, 1, f.db.Count(t, "payments"))

	res = f.payment.VerifyBookingPayment(ctx, user(userID), verifyRequest(reopened.RazorpayOrderID, "pay_3"))
	require.NoError(t, res.Error)
}

func TestVerifyBookingPaymentGuards(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, co := checkout(t, f)
	stranger := f.db.SeedUser(t, "Ravi", "2", nil)
	orderID := co.Payment.RazorpayOrderID

	res := f.payment.VerifyBookingPayment(ctx, user(stranger), verifyRequest(orderID, "pay_1"))
	assert.Equal(t, http.StatusForbidden, code(t, res))

	res = f.payment.VerifyBookingPayment(ctx, user(stranger), verifyRequest("order_unknown", "pay_1"))
	assert.Equal(t, http.StatusNotFound, code(t, res))

	release, err := f.locker.Acquire(ctx, "PAYMENT:VERIFY:"+orderID, 0)
	require.NoError(t, err)
	res = f.payment.VerifyBookingPayment(ctx, admin(), verifyRequest(orderID, "pay_1"))
	assert.Equal(t, http.StatusConflict, code(t, res))
	release()

	f.locker.err = errors.New("redis down")
	res = f.payment.VerifyBookingPayment(ctx, admin(), verifyRequest(orderID, "pay_1"))
	require.NoError(t, res.Error, "verification proceeds without the lock")

	stored, err := f.payments.FindByReference(ctx, co.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentSuccess, stored.Status)
}

func TestVerifyRejectsCancelledBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	var out bytes.Buffer
	f.payment.Log = log.NewWithWriter("test", "ERROR", &out)
	userID, co := checkout(t, f)

	require.NoError(t, f.booking.CancelBooking(ctx, user(userID), co.Booking.ID).Error)
	res := f.payment.VerifyBookingPayment(ctx, user(userID), verifyRequest(co.Payment.RazorpayOrderID, "pay_1"))
	assert.Equal(t, http.StatusConflict, code(t, res))

	stored, err := f.payments.FindByReference(ctx, co.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCreated, stored.Status)

	// the captured money is reported for a manual refund
	assert.Contains(t, out.String(), "manual refund required")
	assert.Contains(t, out.String(), fmt.Sprintf("booking_id=%d", co.Booking.ID))
	assert.Contains(t, out.String(), "razorpay_payment_id=pay_1")

	out.Reset()
	request := verifyRequest(co.Payment.RazorpayOrderID, "pay_2")
	request.RazorpaySignature = "forged"
	assert.Equal(t, http.StatusConflict, code(t, f.payment.VerifyBookingPayment(ctx, user(userID), request)))
	assert.NotContains(t, out.String(), "manual refund required")
}

func TestVerifyPaymentOnAdminConfirmedBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID, co := checkout(t, f)

	require.NoError(t, f.booking.ConfirmBooking(ctx, co.Booking.ID).Error)
	confirmations := len(f.dispatcher.Events())

	res := f.payment.VerifyBookingPayment(ctx, user(userID), verifyRequest(co.Payment.RazorpayOrderID, "pay_1"))
	require.NoError(t, res.Error)

	booking, err := f.bookings.FindByID(ctx, co.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingConfirmed, booking.Status)
	assert.Len(t, f.dispatcher.Events(), confirmations, "booking was already announced as confirmed")
	assert.Equal(t, []string{model.PaymentEventSucceeded}, f.publisher.Types())
}

func TestVerifyRejectsCompletedBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID, co := checkout(t, f)

	_, err := f.db.SQL.Exec(`UPDATE bookings SET status = ? WHERE id = ?`, entity.BookingCompleted, co.Booking.ID)
	require.NoError(t, err)
	events := len(f.dispatcher.Events())

	res := f.payment.VerifyBookingPayment(ctx, user(userID), verifyRequest(co.Payment.RazorpayOrderID, "pay_1"))
	assert.Equal(t, http.StatusConflict, code(t, res))

	stored, err := f.payments.FindByReference(ctx, co.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCreated, stored.Status)
	assert.Len(t, f.dispatcher.Events(), events)
	assert.Empty(t, f.publisher.Types())
}

func TestCreateBookingPaymentReusesInFlightPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID, co := checkout(t, f)

	require.NoError(t, f.payment.VerifyBookingPayment(ctx, user(userID), verifyRequest(co.Payment.RazorpayOrderID, "pay_1")).Error)

	res := f.payment.CreateBookingPayment(ctx, user(userID), &model.CreatePaymentRequest{BookingID: co.Booking.ID})
	require.NoError(t, res.Error)
	existing := res.Data.(*model.GatewayOrderResponse)
	assert.Equal(t, co.Payment.RazorpayOrderID, existing.RazorpayOrderID)
	assert.Equal(t, entity.PaymentSuccess, existing.Status)
	assert.Len(t, f.gateway.orders, 1)
}

func TestCreateBookingPaymentFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID := f.db.SeedUser(t, "Asha", "1", nil)
	pujaID := f.db.SeedPuja(t, "Rudrabhishek")

	free := f.booking.CreateBooking(ctx, user(userID), &model.CreateBookingRequest{PujaID: &pujaID})
	require.NoError(t, free.Error)
	freeID := free.Data.(*entity.Booking).ID
	res := f.payment.CreateBookingPayment(ctx, user(userID), &model.CreatePaymentRequest{BookingID: freeID})
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	planID := f.db.SeedPlan(t, "Family", decimal.NewFromInt(525), decimal.NullDecimal{})
	paid := f.booking.CreateBooking(ctx, user(userID), &model.CreateBookingRequest{PujaID: &pujaID, PlanID: &planID})
	require.NoError(t, paid.Error)
	paidID := paid.Data.(*entity.Booking).ID

	res = f.payment.CreateBookingPayment(ctx, user(userID+100), &model.CreatePaymentRequest{BookingID: paidID})
	assert.Equal(t, http.StatusForbidden, code(t, res))

	f.gateway.createErr = errGatewayDown
	res = f.payment.CreateBookingPayment(ctx, user(userID), &model.CreatePaymentRequest{BookingID: paidID})
	assert.Equal(t, http.StatusInternalServerError, code(t, res))
	assert.Equal(t, 0, f.db.Count(t, "payments"))
}

func TestRefundBookingPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID, co := checkout(t, f)

	res := f.payment.RefundBookingPayment(ctx, co.Payment.PaymentID)
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	require.NoError(t, f.payment.VerifyBookingPayment(ctx, user(userID), verifyRequest(co.Payment.RazorpayOrderID, "pay_1")).Error)

	res = f.payment.RefundBookingPayment(ctx, co.Payment.PaymentID)
	require.NoError(t, res.Error)
	refunded := res.Data.(*entity.Payment)
	assert.Equal(t, entity.PaymentRefunded, refunded.Status)
	assert.Equal(t, "rfnd_pay_1", *refunded.RefundID)

	booking, err := f.bookings.FindByID(ctx, co.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingCancelled, booking.Status)
	assert.Equal(t, []string{model.PaymentEventSucceeded, model.PaymentEventRefunded}, f.publisher.Types())

	res = f.payment.GetPaymentByBooking(ctx, user(userID), co.Booking.ID)
	require.NoError(t, res.Error)
	assert.Equal(t, entity.PaymentRefunded, res.Data.(*entity.Payment).Status)

	res = f.payment.ListPayments(ctx, entity.PaymentRefunded, model.Paging{})
	require.NoError(t, res.Error)
	assert.Len(t, res.Data.([]entity.Payment), 1)
}

func TestEventPublishFailureDoesNotFailVerification(t *testing.T) {
	f := newFixture(t)
	userID, co := checkout(t, f)
	f.publisher.err = errors.New("broker down")

	res := f.payment.VerifyBookingPayment(context.Background(), user(userID), verifyRequest(co.Payment.RazorpayOrderID, "pay_1"))
	require.NoError(t, res.Error)
}
