// Package sqlite регистрирует flavor SQLite для sql адаптера.
package sqlite

import (
	"fmt"
	"net/url"

	_ "modernc.org/sqlite" // Register sqlite driver

	"github.com/DealGrocer/model/pkg/adapters/sql"
)

// Регистрация flavor в реестре sql адаптера
func init() {
	sql.RegisterFlavor(sql.Flavor{
		Name:   "sqlite",
		Driver: "sqlite",
		DSN:    dsn,
		Dialect: sql.Dialect{
			Placeholder: func(n int) string { return "?" },
			Quote:       func(identifier string) string { return `"` + identifier + `"` },
			IDStrategy:  sql.StrategyLastInsertID,
			CreateTable: createTable,
		},
	}, "sqlite", "sqlite3")
}

// dsn возвращает путь к файлу базы из URI:
//
//	"sqlite:///var/lib/app.db" -> "/var/lib/app.db"
//	"sqlite://app.db"          -> "app.db"
//	"sqlite://"                -> ":memory:"
//
// База ":memory:" живет в рамках одного соединения пула; для данных,
// переживающих соединение, используйте файл
func dsn(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}
	path := u.Host + u.Path
	if path == "" {
		return ":memory:"
	}
	return path
}

// createTable строит DDL таблицы коллекции
// Нативного JSON типа нет, флаг jsonDoc игнорируется
func createTable(table, identity string, _ bool) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s" ("%s" INTEGER PRIMARY KEY AUTOINCREMENT, "data" TEXT NOT NULL)`,
		table, identity)
}
