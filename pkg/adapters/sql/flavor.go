package sql

import (
	"net/url"
	"sort"
	"sync"
)

// InsertStrategy - способ получения идентификатора, сгенерированного
// базой при вставке
type InsertStrategy int

const (
	// StrategyReturning - INSERT ... RETURNING <id>
	// PostgreSQL, SQLite (3.35+)
	StrategyReturning InsertStrategy = iota

	// StrategyLastInsertID - Result.LastInsertId() драйвера
	// MySQL, SQLite
	StrategyLastInsertID

	// StrategyOutput - INSERT ... OUTPUT INSERTED.<id>
	// MS SQL Server
	StrategyOutput
)

// Dialect - особенности SQL синтаксиса конкретной СУБД
type Dialect struct {
	// Placeholder возвращает плейсхолдер параметра для позиции n (с единицы)
	// PostgreSQL: $1, MySQL/SQLite: ?, MS SQL: @p1
	Placeholder func(n int) string

	// Quote экранирует идентификатор
	// PostgreSQL/SQLite: "name", MySQL: `name`, MS SQL: [name]
	Quote func(identifier string) string

	// IDStrategy - способ получения сгенерированного идентификатора
	IDStrategy InsertStrategy

	// CreateTable строит идемпотентный DDL таблицы коллекции
	// jsonDoc запрашивает нативный JSON тип колонки документа;
	// flavor без такого типа игнорирует флаг
	CreateTable func(table, identity string, jsonDoc bool) string
}

// Flavor описывает поддержку конкретной СУБД: драйвер database/sql,
// преобразование URI в DSN и синтаксический диалект
type Flavor struct {
	// Name - имя flavor: "postgres", "mysql", "sqlite", "mssql"
	Name string

	// Driver - имя зарегистрированного драйвера database/sql
	Driver string

	// DSN преобразует разобранный URI подключения в DSN драйвера
	DSN func(u *url.URL) string

	// Dialect - особенности синтаксиса
	Dialect Dialect
}

var (
	flavorsMu sync.RWMutex
	flavors   = make(map[string]Flavor)
)

// RegisterFlavor регистрирует flavor для перечисленных URI схем
// Вызывается в init() пакетов движков; повторная регистрация схемы
// заменяет flavor
func RegisterFlavor(f Flavor, schemes ...string) {
	flavorsMu.Lock()
	defer flavorsMu.Unlock()
	for _, scheme := range schemes {
		flavors[scheme] = f
	}
}

// FlavorFor возвращает flavor для URI схемы
func FlavorFor(scheme string) (Flavor, bool) {
	flavorsMu.RLock()
	defer flavorsMu.RUnlock()
	f, ok := flavors[scheme]
	return f, ok
}

// Schemes возвращает отсортированный список зарегистрированных схем
func Schemes() []string {
	flavorsMu.RLock()
	defer flavorsMu.RUnlock()

	schemes := make([]string, 0, len(flavors))
	for scheme := range flavors {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)
	return schemes
}
