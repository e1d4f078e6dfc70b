package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"kotidham-service/src/internal/config"
	"kotidham-service/src/pkg/databases/mysql"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]

	viperConfig := config.NewViper()
	viperConfig.SetDefault("migrations.path", "file://migrations")
	cfg, err := config.LoadAppConfig(viperConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)

	dsn := mysql.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
	}.DSN()
	logger.Info("migrate", fmt.Sprintf("connecting to %s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name), "main", "")

	m, err := migrate.New(viperConfig.GetString("migrations.path"), "mysql://"+dsn)
	if err != nil {
		logger.Logger.Fatalf("init migrations: %v", err)
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			logger.Error("migrate", "failed to close migration resources", "main", fmt.Sprintf("%v, %v", sourceErr, dbErr))
		}
	}()

	switch command {
	case "up":
		err := m.Up()
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			logger.Info("migrate", "no change: database is up to date", "up", "")
		case err != nil:
			logger.Logger.Fatalf("run migrations: %v", err)
		default:
			logger.Info("migrate", "migrations applied", "up", "")
		}

	case "down":
		if err := m.Steps(-1); err != nil {
			logger.Logger.Fatalf("roll back last migration: %v", err)
		}
		logger.Info("migrate", "last migration rolled back", "down", "")

	case "goto":
		if len(os.Args) < 3 {
			logger.Logger.Fatal("goto needs a version number")
		}
		version, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			logger.Logger.Fatalf("invalid version: %v", err)
		}
		err = m.Migrate(uint(version))
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			logger.Info("migrate", fmt.Sprintf("no change: database already at version %d", version), "goto", "")
		case err != nil:
			logger.Logger.Fatalf("migrate to version %d: %v", version, err)
		default:
			logger.Info("migrate", fmt.Sprintf("migrated to version %d", version), "goto", "")
		}

	case "status":
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			logger.Info("migrate", "no migrations applied yet", "status", "")
		case err != nil:
			logger.Logger.Fatalf("read migration version: %v", err)
		default:
			state := ""
			if dirty {
				state = " (dirty)"
			}
			logger.Info("migrate", fmt.Sprintf("current version: %d%s", version, state), "status", "")
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: migrate [command]")
	fmt.Println("Commands:")
	fmt.Println("  up     - apply all pending migrations")
	fmt.Println("  down   - roll back the last migration")
	fmt.Println("  goto N - migrate to version N")
	fmt.Println("  status - print the current migration version")
}
