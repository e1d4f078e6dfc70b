package config

import (
	"kotidham-service/src/pkg/databases/mysql"
	"kotidham-service/src/pkg/log"

	"gorm.io/gorm"
)

func NewDatabase(cfg *AppConfig, log log.Log) (mysql.DBInterface, *gorm.DB, error) {
	db, err := mysql.InitConnection(mysql.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Name:            cfg.Database.Name,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
	if err != nil {
		log.Error("database init", err.Error(), "config", "")
		return nil, nil, err
	}

	sqlxDB, err := db.GetDB()
	if err != nil {
		return nil, nil, err
	}
	gdb, err := mysql.NewGorm(sqlxDB.DB)
	if err != nil {
		log.Error("database init", err.Error(), "gorm", "")
		return nil, nil, err
	}
	return db, gdb, nil
}
