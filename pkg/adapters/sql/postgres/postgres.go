// Package postgres регистрирует flavor PostgreSQL для sql адаптера.
package postgres

import (
	"fmt"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver

	"github.com/DealGrocer/model/pkg/adapters/sql"
)

// Регистрация flavor в реестре sql адаптера
func init() {
	sql.RegisterFlavor(sql.Flavor{
		Name:   "postgres",
		Driver: "pgx",
		DSN:    dsn,
		Dialect: sql.Dialect{
			Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
			Quote:       func(identifier string) string { return `"` + identifier + `"` },
			IDStrategy:  sql.StrategyReturning,
			CreateTable: createTable,
		},
	}, "postgres", "postgresql")
}

// dsn возвращает URI как есть: pgx понимает postgres:// напрямую
func dsn(u *url.URL) string {
	return u.String()
}

// createTable строит DDL таблицы коллекции
// jsonDoc переключает колонку документа с TEXT на JSONB
func createTable(table, identity string, jsonDoc bool) string {
	docType := "TEXT"
	if jsonDoc {
		docType = "JSONB"
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" ("%s" BIGSERIAL PRIMARY KEY, "data" %s NOT NULL)`,
		table, identity, docType)
}
