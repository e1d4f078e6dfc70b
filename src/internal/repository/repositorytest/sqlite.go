// Package repositorytest opens throwaway SQLite databases shaped like the MySQL schema.
package repositorytest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"kotidham-service/src/pkg/databases/mysql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT,
	mobile TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'user',
	created_at DATETIME NOT NULL
);
CREATE TABLE pujas (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	sub_heading TEXT NOT NULL DEFAULT '',
	description TEXT,
	location TEXT,
	category TEXT,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE temples (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT,
	location TEXT,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE plans (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT,
	actual_price DECIMAL(10,2) NOT NULL,
	discounted_price DECIMAL(10,2),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE chadawas (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT,
	price DECIMAL(10,2) NOT NULL,
	requires_note BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	puja_id INTEGER REFERENCES pujas(id),
	temple_id INTEGER REFERENCES temples(id),
	plan_id INTEGER REFERENCES plans(id),
	status TEXT NOT NULL,
	mobile_number TEXT,
	whatsapp_number TEXT,
	gotra TEXT,
	puja_link TEXT,
	total_amount DECIMAL(10,2) NOT NULL DEFAULT 0,
	booking_date DATETIME NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE booking_chadawas (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	booking_id INTEGER NOT NULL REFERENCES bookings(id),
	chadawa_id INTEGER NOT NULL REFERENCES chadawas(id),
	note TEXT,
	price DECIMAL(10,2) NOT NULL DEFAULT 0
);
CREATE TABLE payments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	booking_id INTEGER NOT NULL UNIQUE REFERENCES bookings(id),
	gateway_order_id TEXT NOT NULL UNIQUE,
	gateway_payment_id TEXT,
	signature TEXT,
	amount DECIMAL(10,2) NOT NULL,
	currency TEXT NOT NULL,
	status TEXT NOT NULL,
	refund_id TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT,
	selling_price DECIMAL(10,2) NOT NULL,
	actual_price DECIMAL(10,2) NOT NULL,
	stock_quantity INTEGER NOT NULL DEFAULT 0,
	total_sales INTEGER NOT NULL DEFAULT 0,
	shipping_charge DECIMAL(10,2) NOT NULL DEFAULT 0,
	free_shipping_above DECIMAL(10,2),
	allow_cod BOOLEAN NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE promo_codes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL UNIQUE,
	description TEXT,
	discount_type TEXT NOT NULL,
	discount_value DECIMAL(10,2) NOT NULL,
	max_discount_amount DECIMAL(10,2),
	min_order_amount DECIMAL(10,2),
	max_uses INTEGER,
	current_uses INTEGER NOT NULL DEFAULT 0,
	max_uses_per_user INTEGER NOT NULL DEFAULT 1,
	applicable_to_products BOOLEAN NOT NULL DEFAULT 1,
	applicable_to_pujas BOOLEAN NOT NULL DEFAULT 1,
	valid_from DATETIME,
	valid_until DATETIME,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_number TEXT NOT NULL UNIQUE,
	user_id INTEGER NOT NULL REFERENCES users(id),
	promo_code_id INTEGER REFERENCES promo_codes(id),
	subtotal DECIMAL(10,2) NOT NULL,
	discount_amount DECIMAL(10,2) NOT NULL DEFAULT 0,
	shipping_charges DECIMAL(10,2) NOT NULL DEFAULT 0,
	tax_amount DECIMAL(10,2) NOT NULL DEFAULT 0,
	total_amount DECIMAL(10,2) NOT NULL,
	shipping_name TEXT NOT NULL,
	shipping_phone TEXT NOT NULL,
	shipping_email TEXT,
	shipping_address TEXT NOT NULL,
	shipping_city TEXT NOT NULL,
	shipping_state TEXT NOT NULL,
	shipping_pincode TEXT NOT NULL,
	notes TEXT,
	payment_method TEXT NOT NULL,
	status TEXT NOT NULL,
	payment_status TEXT NOT NULL,
	stock_released BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE order_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id INTEGER NOT NULL REFERENCES orders(id),
	product_id INTEGER NOT NULL REFERENCES products(id),
	product_name TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	unit_price DECIMAL(10,2) NOT NULL,
	total_price DECIMAL(10,2) NOT NULL
);
CREATE TABLE order_payments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id INTEGER NOT NULL UNIQUE REFERENCES orders(id),
	gateway_order_id TEXT NOT NULL UNIQUE,
	gateway_payment_id TEXT,
	signature TEXT,
	amount DECIMAL(10,2) NOT NULL,
	currency TEXT NOT NULL,
	status TEXT NOT NULL,
	refund_id TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// DB bundles the handles a test needs.
type DB struct {
	SQL  *sqlx.DB
	Conn mysql.DBInterface
	Gorm *gorm.DB
}

// New opens a fresh file backed SQLite database with the service schema applied.
func New(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kotidham.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	raw, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)

	db := sqlx.NewDb(raw, "sqlite3")
	_, err = db.Exec(schema)
	require.NoError(t, err)

	gdb, err := mysql.NewGorm(raw)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return &DB{
		SQL:  db,
		Conn: mysql.NewFromDB(db),
		Gorm: gdb,
	}
}

func now() time.Time {
	return time.Now().UTC()
}

func (d *DB) insert(t *testing.T, query string, args ...interface{}) int64 {
	t.Helper()
	res, err := d.SQL.Exec(query, args...)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func (d *DB) SeedUser(t *testing.T, name, mobile string, email *string) int64 {
	return d.insert(t, `INSERT INTO users (name, email, mobile, role, created_at) VALUES (?, ?, ?, 'user', ?)`,
		name, email, mobile, now())
}

func (d *DB) SeedPuja(t *testing.T, name string) int64 {
	return d.insert(t, `INSERT INTO pujas (name, sub_heading, is_active, created_at, updated_at) VALUES (?, '', 1, ?, ?)`,
		name, now(), now())
}

func (d *DB) SeedTemple(t *testing.T, name string) int64 {
	return d.insert(t, `INSERT INTO temples (name, is_active, created_at, updated_at) VALUES (?, 1, ?, ?)`,
		name, now(), now())
}

func (d *DB) SeedPlan(t *testing.T, name string, actual decimal.Decimal, discounted decimal.NullDecimal) int64 {
	return d.insert(t, `INSERT INTO plans (name, actual_price, discounted_price, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		name, actual, discounted, now(), now())
}

func (d *DB) SeedChadawa(t *testing.T, name string, price decimal.Decimal, requiresNote bool) int64 {
	return d.insert(t, `INSERT INTO chadawas (name, price, requires_note, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		name, price, requiresNote, now(), now())
}

type ProductSeed struct {
	Name              string
	Price             decimal.Decimal
	Stock             int
	ShippingCharge    decimal.Decimal
	FreeShippingAbove decimal.NullDecimal
	AllowCOD          bool
	Inactive          bool
}

func (d *DB) SeedProduct(t *testing.T, p ProductSeed) int64 {
	return d.insert(t, `
		INSERT INTO products (name, selling_price, actual_price, stock_quantity, total_sales, shipping_charge,
			free_shipping_above, allow_cod, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Price, p.Price, p.Stock, p.ShippingCharge, p.FreeShippingAbove, p.AllowCOD, !p.Inactive, now(), now())
}

type PromoSeed struct {
	Code           string
	DiscountType   string
	Value          decimal.Decimal
	MaxDiscount    decimal.NullDecimal
	MinOrder       decimal.NullDecimal
	MaxUses        *int
	MaxUsesPerUser int
}

func (d *DB) SeedPromo(t *testing.T, p PromoSeed) int64 {
	return d.insert(t, `
		INSERT INTO promo_codes (code, discount_type, discount_value, max_discount_amount, min_order_amount, max_uses,
			current_uses, max_uses_per_user, applicable_to_products, applicable_to_pujas, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, 1, 1, 1, ?, ?)`,
		p.Code, p.DiscountType, p.Value, p.MaxDiscount, p.MinOrder, p.MaxUses, p.MaxUsesPerUser, now(), now())
}

// Count returns the number of rows in table.
func (d *DB) Count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, d.SQL.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func (d *DB) ProductStock(t *testing.T, id int64) (stock, sales int) {
	t.Helper()
	row := struct {
		Stock int `db:"stock_quantity"`
		Sales int `db:"total_sales"`
	}{}
	require.NoError(t, d.SQL.Get(&row, `SELECT stock_quantity, total_sales FROM products WHERE id = ?`, id))
	return row.Stock, row.Sales
}
