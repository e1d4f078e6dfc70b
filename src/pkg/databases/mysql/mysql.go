package mysql

import (
	"database/sql"
	"fmt"
	"time"

	"kotidham-service/src/pkg/log"

	driver "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DBInterface is what repositories depend on.
type DBInterface interface {
	GetDB() (*sqlx.DB, error)
	Close() error
}

type Database struct {
	db *sqlx.DB
}

func (c Config) DSN() string {
	cfg := driver.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	cfg.DBName = c.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.MultiStatements = true
	// conditional updates rely on matched rather than changed rows
	cfg.ClientFoundRows = true
	return cfg.FormatDSN()
}

func InitConnection(cfg Config, log log.Log) (DBInterface, error) {
	db, err := sqlx.Connect("mysql", cfg.DSN())
	if err != nil {
		log.Error("mysql-init", fmt.Sprintf("failed to connect to mysql %s:%d", cfg.Host, cfg.Port), "InitConnection", err.Error())
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	log.Info("mysql-init", "connected to mysql", "InitConnection", cfg.Name)
	return &Database{db: db}, nil
}

// NewFromDB wraps an already opened handle, used by tests and tools.
func NewFromDB(db *sqlx.DB) DBInterface {
	return &Database{db: db}
}

func (d *Database) GetDB() (*sqlx.DB, error) {
	if d == nil || d.db == nil {
		return nil, fmt.Errorf("database is not initialized")
	}
	return d.db, nil
}

func (d *Database) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// NewGorm opens gorm on top of the pooled connection so both share one pool.
func NewGorm(conn *sql.DB) (*gorm.DB, error) {
	return gorm.Open(gormMysql.New(gormMysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
}
