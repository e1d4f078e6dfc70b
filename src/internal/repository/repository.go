package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kotidham-service/src/pkg/databases/mysql"

	driver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPromoExhausted    = errors.New("promo code usage limit reached")
	ErrStaleState        = errors.New("record changed state concurrently")
	ErrInUse             = errors.New("record is referenced by other records")
	ErrDuplicate         = errors.New("duplicate record")
)

// Executor is satisfied by both *sqlx.DB and *sqlx.Tx.
type Executor interface {
	sqlx.ExtContext
}

// Transactor runs a unit of work in one sqlx transaction.
type Transactor struct {
	DB mysql.DBInterface
}

func NewTransactor(db mysql.DBInterface) *Transactor {
	return &Transactor{DB: db}
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(tx Executor) error) error {
	db, err := t.DB.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// translate maps mysql constraint violations to repository sentinels.
func translate(err error) error {
	var myErr *driver.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return fmt.Errorf("%w: %s", ErrDuplicate, myErr.Message)
		case 1451:
			return fmt.Errorf("%w: %s", ErrInUse, myErr.Message)
		}
	}
	return err
}

func inQuery(ex Executor, query string, args ...interface{}) (string, []interface{}, error) {
	q, a, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return ex.Rebind(q), a, nil
}

func paging(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return skip, limit
}

func sqlxSelect(ctx context.Context, ex Executor, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, ex, dest, query, args...)
}

func sqlxGet(ctx context.Context, ex Executor, dest interface{}, query string, args ...interface{}) error {
	return notFound(sqlx.GetContext(ctx, ex, dest, query, args...))
}
