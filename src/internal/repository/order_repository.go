package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kotidham-service/src/internal/entity"
	"kotidham-service/src/pkg/databases/mysql"
)

type OrderRepository struct {
	DB mysql.DBInterface
}

func NewOrderRepository(db mysql.DBInterface) *OrderRepository {
	return &OrderRepository{
		DB: db,
	}
}

const orderColumns = `id, order_number, user_id, promo_code_id, subtotal, discount_amount, shipping_charges,
	tax_amount, total_amount, shipping_name, shipping_phone, shipping_email, shipping_address, shipping_city,
	shipping_state, shipping_pincode, notes, payment_method, status, payment_status, stock_released,
	created_at, updated_at`

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var order entity.Order
	if err := db.GetContext(ctx, &order, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}

	items, err := r.items(ctx, db, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *OrderRepository) items(ctx context.Context, ex Executor, orderID int64) ([]entity.OrderItem, error) {
	items := make([]entity.OrderItem, 0)
	query := `
		SELECT id, order_id, product_id, product_name, quantity, unit_price, total_price
		FROM order_items WHERE order_id = ? ORDER BY id`
	if err := sqlxSelect(ctx, ex, &items, query, orderID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *OrderRepository) List(ctx context.Context, filter entity.OrderFilter) ([]entity.Order, error) {
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
	if filter.PaymentStatus != nil {
		where = append(where, "payment_status = ?")
		args = append(args, *filter.PaymentStatus)
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	skip, limit := paging(filter.Skip, filter.Limit)
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, skip)

	orders := make([]entity.Order, 0)
	if err := db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, err
	}

	for i := range orders {
		items, err := r.items(ctx, db, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// Create writes the order header and item snapshots. ex must be a transaction.
func (r *OrderRepository) Create(ctx context.Context, ex Executor, order *entity.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := ex.ExecContext(ctx, `
		INSERT INTO orders (order_number, user_id, promo_code_id, subtotal, discount_amount, shipping_charges,
			tax_amount, total_amount, shipping_name, shipping_phone, shipping_email, shipping_address, shipping_city,
			shipping_state, shipping_pincode, notes, payment_method, status, payment_status, stock_released,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		order.OrderNumber, order.UserID, order.PromoCodeID, order.Subtotal, order.DiscountAmount, order.ShippingCharges,
		order.TaxAmount, order.TotalAmount, order.ShippingName, order.ShippingPhone, order.ShippingEmail,
		order.ShippingAddress, order.ShippingCity, order.ShippingState, order.ShippingPincode, order.Notes,
		order.PaymentMethod, order.Status, order.PaymentStatus, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	if order.ID, err = res.LastInsertId(); err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		res, err := ex.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, total_price)
			VALUES (?, ?, ?, ?, ?, ?)`,
			item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.TotalPrice)
		if err != nil {
			return translate(err)
		}
		if item.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}
	return nil
}

// DecrementStock takes quantity units of a product, failing when stock would go negative.
func (r *OrderRepository) DecrementStock(ctx context.Context, ex Executor, productID int64, quantity int) error {
	res, err := ex.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - ?, total_sales = total_sales + ?, updated_at = ?
		WHERE id = ? AND stock_quantity >= ?`,
		quantity, quantity, time.Now().UTC(), productID, quantity)
	if err != nil {
		return err
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: product %d", ErrInsufficientStock, productID)
	}
	return nil
}

// ReleaseStock returns every item of the order to stock exactly once.
func (r *OrderRepository) ReleaseStock(ctx context.Context, ex Executor, orderID int64) (bool, error) {
	now := time.Now().UTC()
	res, err := ex.ExecContext(ctx,
		`UPDATE orders SET stock_released = 1, updated_at = ? WHERE id = ? AND stock_released = 0`, now, orderID)
	if err != nil {
		return false, err
	}
	ok, err := affected(res)
	if err != nil || !ok {
		return false, err
	}

	items, err := r.items(ctx, ex, orderID)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		_, err := ex.ExecContext(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity + ?, total_sales = CASE WHEN total_sales >= ? THEN total_sales - ? ELSE 0 END, updated_at = ?
			WHERE id = ?`,
			item.Quantity, item.Quantity, item.Quantity, now, item.ProductID)
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r *OrderRepository) IncrementPromoUse(ctx context.Context, ex Executor, promoID int64) error {
	res, err := ex.ExecContext(ctx, `
		UPDATE promo_codes SET current_uses = current_uses + 1, updated_at = ?
		WHERE id = ? AND (max_uses IS NULL OR current_uses < max_uses)`,
		time.Now().UTC(), promoID)
	if err != nil {
		return err
	}
	ok, err := affected(res)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPromoExhausted
	}
	return nil
}

// CountPromoUses counts the user's orders that redeemed the promo and were not cancelled.
func (r *OrderRepository) CountPromoUses(ctx context.Context, userID, promoID int64) (int, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return 0, err
	}

	var count int
	err = db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM orders WHERE user_id = ? AND promo_code_id = ? AND status <> ?`,
		userID, promoID, entity.OrderCancelled)
	return count, err
}

// ProductOrdered reports whether any order line points at the product.
func (r *OrderRepository) ProductOrdered(ctx context.Context, productID int64) (bool, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return false, err
	}

	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM order_items WHERE product_id = ?`, productID); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, ex Executor, id int64, from []string, to string) (bool, error) {
	query, args, err := inQuery(ex, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status IN (?)`,
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

// SettlePayment records the gateway outcome on a pending, uncancelled order. An empty status keeps the current one.
// It reports false when the order is no longer awaiting payment.
func (r *OrderRepository) SettlePayment(ctx context.Context, ex Executor, id int64, paymentStatus, status string) (bool, error) {
	now := time.Now().UTC()
	var query string
	args := []interface{}{paymentStatus}
	if status != "" {
		query = `UPDATE orders SET payment_status = ?, status = ?, updated_at = ? WHERE id = ? AND payment_status = ? AND status <> ?`
		args = append(args, status)
	} else {
		query = `UPDATE orders SET payment_status = ?, updated_at = ? WHERE id = ? AND payment_status = ? AND status <> ?`
	}
	args = append(args, now, id, entity.OrderPaymentPending, entity.OrderCancelled)

	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *OrderRepository) Patch(ctx context.Context, ex Executor, id int64, expectStatus string, cols map[string]interface{}) (bool, error) {
	return patchRow(ctx, ex, "orders", id, expectStatus, cols)
}
