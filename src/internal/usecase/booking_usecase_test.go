package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"kotidham-service/src/internal/entity"
	"kotidham-service/src/internal/model"
	httpError "kotidham-service/src/pkg/http-error"
	"kotidham-service/src/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func code(t *testing.T, res utils.Result) int {
	t.Helper()
	if res.Error == nil {
		return http.StatusOK
	}
	var commonErr *httpError.CommonError
	require.True(t, errors.As(res.Error, &commonErr), "unexpected error type %T", res.Error)
	return commonErr.Code
}

func TestCreateBookingPricesFromCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID := f.db.SeedUser(t, "Asha", "9876543210", nil)
	pujaID := f.db.SeedPuja(t, "Rudrabhishek")
	planID := f.db.SeedPlan(t, "Family", decimal.NewFromInt(600), decimal.NewNullDecimal(decimal.NewFromInt(500)))
	diya := f.db.SeedChadawa(t, "Diya", decimal.RequireFromString("51"), false)
	flowers := f.db.SeedChadawa(t, "Flowers", decimal.RequireFromString("101.50"), true)

	res := f.booking.CreateBooking(ctx, user(userID), &model.CreateBookingRequest{
		PujaID: &pujaID,
		PlanID: &planID,
		Gotra:  ptr("Kashyap"),
		Chadawas: []model.BookingChadawaRequest{
			{ChadawaID: diya},
			{ChadawaID: flowers, Note: ptr("for my mother")},
		},
	})
	require.NoError(t, res.Error)

	booking := res.Data.(*entity.Booking)
	assert.Equal(t, entity.BookingPending, booking.Status)
	assert.True(t, decimal.RequireFromString("652.50").Equal(booking.TotalAmount), booking.TotalAmount.String())
	assert.Equal(t, 2, f.db.Count(t, "booking_chadawas"))

	stored, err := f.bookings.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, stored.Chadawas, 2)
	assert.True(t, decimal.RequireFromString("101.50").Equal(stored.Chadawas[1].Price))

	events := f.dispatcher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.NotifyPending, events[0].Event)
}

func TestCreateBookingTempleOnlySkipsPlan(t *testing.T) {
	f := newFixture(t)
	userID := f.db.SeedUser(t, "Asha", "1", nil)
	templeID := f.db.SeedTemple(t, "Kashi Vishwanath")
	planID := f.db.SeedPlan(t, "Family", decimal.NewFromInt(600), decimal.NullDecimal{})
	diya := f.db.SeedChadawa(t, "Diya", decimal.NewFromInt(51), false)

	res := f.booking.CreateBooking(context.Background(), user(userID), &model.CreateBookingRequest{
		TempleID: &templeID,
		PlanID:   &planID,
		Chadawas: []model.BookingChadawaRequest{{ChadawaID: diya}},
	})
	require.NoError(t, res.Error)
	assert.True(t, decimal.NewFromInt(51).Equal(res.Data.(*entity.Booking).TotalAmount))
}

func TestCreateBookingRejections(t *testing.T) {
	f := newFixture(t)
	userID := f.db.SeedUser(t, "Asha", "1", nil)
	pujaID := f.db.SeedPuja(t, "Rudrabhishek")
	templeID := f.db.SeedTemple(t, "Kashi Vishwanath")
	noted := f.db.SeedChadawa(t, "Flowers", decimal.NewFromInt(75), true)

	cases := []struct {
		name    string
		request model.CreateBookingRequest
		code    int
		message string
	}{
		{
			name:    "puja and temple",
			request: model.CreateBookingRequest{PujaID: &pujaID, TempleID: &templeID},
			code:    http.StatusBadRequest,
		},
		{
			name:    "unknown puja",
			request: model.CreateBookingRequest{PujaID: ptr(int64(404))},
			code:    http.StatusNotFound,
			message: "Puja not found",
		},
		{
			name:    "unknown plan",
			request: model.CreateBookingRequest{PujaID: &pujaID, PlanID: ptr(int64(404))},
			code:    http.StatusNotFound,
			message: "Plan not found",
		},
		{
			name: "unknown chadawa",
			request: model.CreateBookingRequest{PujaID: &pujaID, Chadawas: []model.BookingChadawaRequest{
				{ChadawaID: noted, Note: ptr("x")}, {ChadawaID: 404},
			}},
			code:    http.StatusNotFound,
			message: "Chadawa with ID 404 not found",
		},
		{
			name:    "missing note",
			request: model.CreateBookingRequest{PujaID: &pujaID, Chadawas: []model.BookingChadawaRequest{{ChadawaID: noted}}},
			code:    http.StatusBadRequest,
			message: "Note is required for chadawa: Flowers",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := f.booking.CreateBooking(context.Background(), user(userID), &tc.request)
			assert.Equal(t, tc.code, code(t, res))
			if tc.message != "" {
				assert.Equal(t, tc.message, res.Error.Error())
			}
		})
	}
	assert.Equal(t, 0, f.db.Count(t, "bookings"))
	assert.Empty(t, f.dispatcher.Events())
}

func TestCheckoutOpensGatewayOrder(t *testing.T) {
	f := newFixture(t)
	userID := f.db.SeedUser(t, "Asha", "1", nil)
	pujaID := f.db.SeedPuja(t, "Rudrabhishek")
	planID := f.db.SeedPlan(t, "Family", decimal.RequireFromString("525.50"), decimal.NullDecimal{})

	res := f.booking.Checkout(context.Background(), user(userID), &model.CreateBookingRequest{PujaID: &pujaID, PlanID: &planID})
	require.NoError(t, res.Error)

	checkout := res.Data.(*model.CheckoutResponse)
	assert.Equal(t, int64(52550), checkout.Payment.AmountMinor)
	assert.Equal(t, "order_1", checkout.Payment.RazorpayOrderID)
	assert.Equal(t, "rzp_test_key", checkout.Payment.KeyID)
	assert.Equal(t, checkout.Booking.ID, checkout.Payment.ReferenceID)
	assert.Equal(t, 1, f.db.Count(t, "payments"))
}

func TestBookingLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.db.SeedUser(t, "Asha", "1", nil)
	other := f.db.SeedUser(t, "Ravi", "2", nil)
	pujaID := f.db.SeedPuja(t, "Rudrabhishek")

	created := f.booking.CreateBooking(ctx, user(owner), &model.CreateBookingRequest{PujaID: &pujaID})
	require.NoError(t, created.Error)
	id := created.Data.(*entity.Booking).ID

	assert.Equal(t, http.StatusForbidden, code(t, f.booking.GetBooking(ctx, user(other), id)))
	assert.Equal(t, http.StatusForbidden, code(t, f.booking.CancelBooking(ctx, user(other), id)))

	assert.Equal(t, http.StatusBadRequest, code(t, f.booking.CompleteBooking(ctx, id, &model.CompleteBookingRequest{PujaLink: "https://youtu.be/x"})))
	require.NoError(t, f.booking.ConfirmBooking(ctx, id).Error)
	assert.Equal(t, http.StatusBadRequest, code(t, f.booking.ConfirmBooking(ctx, id)))
	require.NoError(t, f.booking.CompleteBooking(ctx, id, &model.CompleteBookingRequest{PujaLink: "https://youtu.be/x"}).Error)

	got := f.booking.GetBooking(ctx, user(owner), id)
	require.NoError(t, got.Error)
	booking := got.Data.(*entity.Booking)
	assert.Equal(t, entity.BookingCompleted, booking.Status)
	assert.Equal(t, "https://youtu.be/x", *booking.PujaLink)

	assert.Equal(t, http.StatusBadRequest, code(t, f.booking.CancelBooking(ctx, user(owner), id)))

	var kinds []string
	for _, e := range f.dispatcher.Events() {
		kinds = append(kinds, e.Event)
	}
	assert.Equal(t, []string{model.NotifyPending, model.NotifyConfirmed, model.NotifyCompleted}, kinds)
}

func TestUpdateBookingValidatesTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.db.SeedUser(t, "Asha", "1", nil)
	pujaID := f.db.SeedPuja(t, "Rudrabhishek")

	created := f.booking.CreateBooking(ctx, user(owner), &model.CreateBookingRequest{PujaID: &pujaID})
	require.NoError(t, created.Error)
	id := created.Data.(*entity.Booking).ID

	res := f.booking.UpdateBooking(ctx, id, &model.BookingPatch{Status: ptr(entity.BookingCompleted)})
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	res = f.booking.UpdateBooking(ctx, id, &model.BookingPatch{Status: ptr("shipped")})
	assert.Equal(t, http.StatusBadRequest, code(t, res))

	res = f.booking.UpdateBooking(ctx, id, &model.BookingPatch{Status: ptr(entity.BookingConfirmed), PujaLink: ptr("https://meet/x")})
	require.NoError(t, res.Error)
	assert.Equal(t, entity.BookingConfirmed, res.Data.(*entity.Booking).Status)

	res = f.booking.ListBookings(ctx, admin(), entity.BookingConfirmed, model.Paging{})
	require.NoError(t, res.Error)
	assert.Len(t, res.Data.([]entity.Booking), 1)

	res = f.booking.ListMyBookings(ctx, user(owner+1), model.Paging{})
	require.NoError(t, res.Error)
	assert.Empty(t, res.Data.([]entity.Booking))
}
