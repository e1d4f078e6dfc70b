package repository

import (
	"context"
	"fmt"
	"time"

	"kotidham-service/src/internal/entity"
	"kotidham-service/src/pkg/databases/mysql"
)

// PaymentRepository serves both payments (bookings) and order_payments (product orders).
// The two tables share their gateway columns and differ only in the reference column.
type PaymentRepository struct {
	DB        mysql.DBInterface
	table     string
	refColumn string
}

func NewBookingPaymentRepository(db mysql.DBInterface) *PaymentRepository {
	return &PaymentRepository{DB: db, table: "payments", refColumn: "booking_id"}
}

func NewOrderPaymentRepository(db mysql.DBInterface) *PaymentRepository {
	return &PaymentRepository{DB: db, table: "order_payments", refColumn: "order_id"}
}

func (r *PaymentRepository) columns() string {
	return fmt.Sprintf(`id, %s AS reference_id, gateway_order_id, gateway_payment_id, signature, amount, currency,
		status, refund_id, created_at, updated_at`, r.refColumn)
}

func (r *PaymentRepository) findOne(ctx context.Context, where string, arg interface{}) (*entity.Payment, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var payment entity.Payment
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`, r.columns(), r.table, where)
	if err := sqlxGet(ctx, db, &payment, query, arg); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (*entity.Payment, error) {
	return r.findOne(ctx, "id", id)
}

func (r *PaymentRepository) FindByReference(ctx context.Context, referenceID int64) (*entity.Payment, error) {
	return r.findOne(ctx, r.refColumn, referenceID)
}

func (r *PaymentRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*entity.Payment, error) {
	return r.findOne(ctx, "gateway_order_id", gatewayOrderID)
}

func (r *PaymentRepository) List(ctx context.Context, status string, skip, limit int) ([]entity.Payment, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	args := make([]interface{}, 0, 3)
	query := fmt.Sprintf(`SELECT %s FROM %s`, r.columns(), r.table)
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	skip, limit = paging(skip, limit)
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, skip)

	payments := make([]entity.Payment, 0)
	if err := db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PaymentRepository) Create(ctx context.Context, ex Executor, payment *entity.Payment) error {
	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, gateway_order_id, amount, currency, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, r.table, r.refColumn)
	res, err := ex.ExecContext(ctx, query, payment.ReferenceID, payment.GatewayOrderID, payment.Amount,
		payment.Currency, payment.Status, payment.CreatedAt, payment.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	payment.ID, err = res.LastInsertId()
	return err
}

// Rebind points an unfinished payment at a fresh gateway order. The amount is never rewritten.
func (r *PaymentRepository) Rebind(ctx context.Context, ex Executor, id int64, gatewayOrderID string) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET gateway_order_id = ?, gateway_payment_id = NULL, signature = NULL, status = ?, updated_at = ?
		WHERE id = ? AND status IN (?, ?)`, r.table)
	res, err := ex.ExecContext(ctx, query, gatewayOrderID, entity.PaymentCreated, time.Now().UTC(),
		id, entity.PaymentCreated, entity.PaymentFailed)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *PaymentRepository) MarkSucceeded(ctx context.Context, ex Executor, id int64, gatewayPaymentID, signature string) (bool, error) {
	return r.settle(ctx, ex, id, entity.PaymentSuccess, gatewayPaymentID, signature)
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, ex Executor, id int64, gatewayPaymentID, signature string) (bool, error) {
	return r.settle(ctx, ex, id, entity.PaymentFailed, gatewayPaymentID, signature)
}

func (r *PaymentRepository) settle(ctx context.Context, ex Executor, id int64, status, gatewayPaymentID, signature string) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET status = ?, gateway_payment_id = ?, signature = ?, updated_at = ?
		WHERE id = ? AND status IN (?, ?)`, r.table)
	res, err := ex.ExecContext(ctx, query, status, gatewayPaymentID, signature, time.Now().UTC(),
		id, entity.PaymentCreated, entity.PaymentPending)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *PaymentRepository) MarkRefunded(ctx context.Context, ex Executor, id int64, refundID string) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET status = ?, refund_id = ?, updated_at = ? WHERE id = ? AND status = ?`, r.table)
	res, err := ex.ExecContext(ctx, query, entity.PaymentRefunded, refundID, time.Now().UTC(), id, entity.PaymentSuccess)
	if err != nil {
		return false, err
	}
	return affected(res)
}
