// Package migrations applies the embedded schema with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed mysql/*.sql postgres/*.sql
var files embed.FS

// UpMySQL migrates the catalog database: users, products, orders and the
// default reservation table.
func UpMySQL(dsn string) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("open mysql for migrations: %w", err)
	}
	defer db.Close()

	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		return fmt.Errorf("create mysql migration driver: %w", err)
	}
	return up("mysql", driver)
}

// UpPostgres migrates the standalone reservation store.
func UpPostgres(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open postgres for migrations: %w", err)
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create postgres migration driver: %w", err)
	}
	return up("postgres", driver)
}

func up(dir string, driver database.Driver) error {
	src, err := iofs.New(files, dir)
	if err != nil {
		return fmt.Errorf("load %s migrations: %w", dir, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dir, driver)
	if err != nil {
		return fmt.Errorf("init %s migrations: %w", dir, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply %s migrations: %w", dir, err)
	}
	return nil
}
