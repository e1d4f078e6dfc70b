package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"kotidham-service/src/internal/entity"
	"kotidham-service/src/pkg/databases/mysql"
)

type BookingRepository struct {
	DB mysql.DBInterface
}

func NewBookingRepository(db mysql.DBInterface) *BookingRepository {
	return &BookingRepository{
		DB: db,
	}
}

const bookingColumns = `id, user_id, puja_id, temple_id, plan_id, status, mobile_number, whatsapp_number,
	gotra, puja_link, total_amount, booking_date, created_at, updated_at`

func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var booking entity.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if err := db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, notFound(err)
	}

	chadawas := make([]entity.BookingChadawa, 0)
	query = `
		SELECT bc.id, bc.booking_id, bc.chadawa_id, c.name, bc.note, bc.price
		FROM booking_chadawas bc
		JOIN chadawas c ON c.id = bc.chadawa_id
		WHERE bc.booking_id = ?
		ORDER BY bc.id`
	if err := db.SelectContext(ctx, &chadawas, query, id); err != nil {
		return nil, err
	}
	booking.Chadawas = chadawas

	return &booking, nil
}

func (r *BookingRepository) List(ctx context.Context, filter entity.BookingFilter) ([]entity.Booking, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	where := make([]string, 0)
	args := make([]interface{}, 0)
	if filter.UserID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *filter.Status)
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	skip, limit := paging(filter.Skip, filter.Limit)
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, skip)

	bookings := make([]entity.Booking, 0)
	if err := db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Create writes the booking and its chadawa rows. ex must be a transaction.
func (r *BookingRepository) Create(ctx context.Context, ex Executor, booking *entity.Booking) error {
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if booking.BookingDate.IsZero() {
		booking.BookingDate = now
	}

	res, err := ex.ExecContext(ctx, `
		INSERT INTO bookings (user_id, puja_id, temple_id, plan_id, status, mobile_number, whatsapp_number,
			gotra, puja_link, total_amount, booking_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.UserID, booking.PujaID, booking.TempleID, booking.PlanID, booking.Status, booking.MobileNumber,
		booking.WhatsappNumber, booking.Gotra, booking.PujaLink, booking.TotalAmount, booking.BookingDate,
		booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	booking.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	for i := range booking.Chadawas {
		c := &booking.Chadawas[i]
		c.BookingID = booking.ID
		res, err := ex.ExecContext(ctx,
			`INSERT INTO booking_chadawas (booking_id, chadawa_id, note, price) VALUES (?, ?, ?, ?)`,
			c.BookingID, c.ChadawaID, c.Note, c.Price)
		if err != nil {
			return translate(err)
		}
		if c.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}

	return nil
}

// UpdateStatus moves a booking to status only when it is currently in one of from.
func (r *BookingRepository) UpdateStatus(ctx context.Context, ex Executor, id int64, from []string, to string) (bool, error) {
	query, args, err := inQuery(ex, `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status IN (?)`,
		to, time.Now().UTC(), id, from)
	if err != nil {
		return false, err
	}
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *BookingRepository) Complete(ctx context.Context, ex Executor, id int64, pujaLink string) (bool, error) {
	res, err := ex.ExecContext(ctx,
		`UPDATE bookings SET status = ?, puja_link = ?, updated_at = ? WHERE id = ? AND status = ?`,
		entity.BookingCompleted, pujaLink, time.Now().UTC(), id, entity.BookingConfirmed)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// Patch applies an explicit column set. expectStatus guards against concurrent transitions.
func (r *BookingRepository) Patch(ctx context.Context, ex Executor, id int64, expectStatus string, cols map[string]interface{}) (bool, error) {
	return patchRow(ctx, ex, "bookings", id, expectStatus, cols)
}

func patchRow(ctx context.Context, ex Executor, table string, id int64, expectStatus string, cols map[string]interface{}) (bool, error) {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names)+1)
	args := make([]interface{}, 0, len(names)+3)
	for _, name := range names {
		sets = append(sets, name+" = ?")
		args = append(args, cols[name])
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	if expectStatus != "" {
		query += " AND status = ?"
		args = append(args, expectStatus)
	}

	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return affected(res)
}
