// Package sql реализует адаптер документного хранения поверх database/sql.
//
// Каждая коллекция - таблица из двух колонок: автоинкрементный
// идентификатор и JSON документ. Поддержка конкретных СУБД подключается
// пакетами движков (postgres, mysql, sqlite, mssql), которые регистрируют
// свой Flavor в init(); выбор движка определяется схемой URI.
package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/DealGrocer/model/pkg/adapters"
	"github.com/DealGrocer/model/pkg/adapters/base"
	"github.com/DealGrocer/model/pkg/mapping"
)

// ExtensionPGJSON - расширение "pg_json": хранить документы в колонке
// JSONB вместо TEXT. Интерпретируется только flavor-ом postgres,
// остальные движки игнорируют расширение
const ExtensionPGJSON = "pg_json"

// docColumn - имя колонки JSON документа
const docColumn = "data"

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

// Регистрация адаптера в глобальном реестре
func init() {
	adapters.Register(adapters.ModuleNameFor("sql"), adapters.ClassNameFor("sql"), New)
}

// Adapter хранит записи коллекций в реляционной базе
type Adapter struct {
	db         *sql.DB
	flavor     Flavor
	mapper     *mapping.Mapper
	extensions []string
	jsonDoc    bool
}

// New создает sql адаптер и готовит таблицы коллекций
// Схема URI выбирает flavor; незарегистрированная схема, неразборчивый
// URI и недоступная база - ошибки конструктора
func New(ctx context.Context, m *mapping.Mapper, uri string, opts adapters.Options) (adapters.Adapter, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse uri: %w", err)
	}

	flavor, ok := FlavorFor(u.Scheme)
	if !ok {
		return nil, fmt.Errorf("no sql flavor registered for scheme %q (registered schemes: %v)",
			u.Scheme, Schemes())
	}

	db, err := sql.Open(flavor.Driver, flavor.DSN(u))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Проверяем подключение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	a := &Adapter{
		db:         db,
		flavor:     flavor,
		mapper:     m,
		extensions: opts.Extensions,
		jsonDoc:    flavor.Name == "postgres" && opts.HasExtension(ExtensionPGJSON),
	}

	if err := a.ensureCollections(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// Kind возвращает тип адаптера
func (a *Adapter) Kind() string {
	return "sql"
}

// Flavor возвращает имя flavor подключенной СУБД
func (a *Adapter) Flavor() string {
	return a.flavor.Name
}

// Extensions возвращает копию списка расширений адаптера
func (a *Adapter) Extensions() []string {
	out := make([]string, len(a.extensions))
	copy(out, a.extensions)
	return out
}

// DB возвращает *sql.DB для прямого доступа (helper метод)
func (a *Adapter) DB() *sql.DB {
	return a.db
}

// Ping проверяет доступность БД
func (a *Adapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return adapters.ErrNotConnected
	}
	return a.db.PingContext(ctx)
}

// Close закрывает соединение с БД
func (a *Adapter) Close(ctx context.Context) error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Create вставляет документ и возвращает запись со сгенерированным
// базой идентификатором
func (a *Adapter) Create(ctx context.Context, collection string, rec mapping.Record) (mapping.Record, error) {
	c, err := a.collection(collection)
	if err != nil {
		return nil, err
	}
	idField := c.IdentityField()

	payload, err := base.EncodeRecord(rec, idField)
	if err != nil {
		return nil, err
	}

	table := a.flavor.Dialect.Quote(collection)
	idCol := a.flavor.Dialect.Quote(idField)
	dataCol := a.flavor.Dialect.Quote(docColumn)
	ph := a.flavor.Dialect.Placeholder

	var id int64
	switch a.flavor.Dialect.IDStrategy {
	case StrategyReturning:
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s", table, dataCol, ph(1), idCol)
		err = a.db.QueryRowContext(ctx, query, string(payload)).Scan(&id)

	case StrategyOutput:
		query := fmt.Sprintf("INSERT INTO %s (%s) OUTPUT INSERTED.%s VALUES (%s)", table, dataCol, idCol, ph(1))
		err = a.db.QueryRowContext(ctx, query, string(payload)).Scan(&id)

	case StrategyLastInsertID:
		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, dataCol, ph(1))
		var res sql.Result
		res, err = a.db.ExecContext(ctx, query, string(payload))
		if err == nil {
			id, err = res.LastInsertId()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", collection, err)
	}

	stored := rec.Clone()
	stored[idField] = id
	return stored, nil
}

// Update заменяет документ существующей записи
func (a *Adapter) Update(ctx context.Context, collection string, rec mapping.Record) error {
	c, err := a.collection(collection)
	if err != nil {
		return err
	}
	idField := c.IdentityField()

	id, ok := base.Int64ID(rec[idField])
	if !ok {
		return fmt.Errorf("update %s: record has no usable %q value", collection, idField)
	}

	payload, err := base.EncodeRecord(rec, idField)
	if err != nil {
		return err
	}

	d := a.flavor.Dialect
	query := fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s = %s",
		d.Quote(collection), d.Quote(docColumn), d.Placeholder(1), d.Quote(idField), d.Placeholder(2))

	res, err := a.db.ExecContext(ctx, query, string(payload), id)
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s[%d]", adapters.ErrRecordNotFound, collection, id)
	}
	return nil
}

// Delete удаляет запись по идентификатору
func (a *Adapter) Delete(ctx context.Context, collection string, id any) error {
	c, err := a.collection(collection)
	if err != nil {
		return err
	}

	key, ok := base.Int64ID(id)
	if !ok {
		return fmt.Errorf("%w: %s[%v]", adapters.ErrRecordNotFound, collection, id)
	}

	d := a.flavor.Dialect
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		d.Quote(collection), d.Quote(c.IdentityField()), d.Placeholder(1))

	res, err := a.db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s[%d]", adapters.ErrRecordNotFound, collection, key)
	}
	return nil
}

// Find возвращает запись по идентификатору
func (a *Adapter) Find(ctx context.Context, collection string, id any) (mapping.Record, error) {
	c, err := a.collection(collection)
	if err != nil {
		return nil, err
	}
	idField := c.IdentityField()

	key, ok := base.Int64ID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s[%v]", adapters.ErrRecordNotFound, collection, id)
	}

	d := a.flavor.Dialect
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		d.Quote(docColumn), d.Quote(collection), d.Quote(idField), d.Placeholder(1))

	var data []byte
	err = a.db.QueryRowContext(ctx, query, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s[%d]", adapters.ErrRecordNotFound, collection, key)
	}
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", collection, err)
	}

	return base.DecodeRecord(data, idField, key)
}

// All возвращает все записи коллекции в порядке возрастания идентификатора
func (a *Adapter) All(ctx context.Context, collection string) ([]mapping.Record, error) {
	c, err := a.collection(collection)
	if err != nil {
		return nil, err
	}
	idField := c.IdentityField()

	d := a.flavor.Dialect
	query := fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s",
		d.Quote(idField), d.Quote(docColumn), d.Quote(collection), d.Quote(idField))

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", collection, err)
	}
	defer rows.Close()

	var records []mapping.Record
	for rows.Next() {
		var id int64
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", collection, err)
		}
		rec, err := base.DecodeRecord(data, idField, id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", collection, err)
	}
	return records, nil
}

// Clear удаляет все записи коллекции, последовательность идентификаторов
// при этом не сбрасывается
func (a *Adapter) Clear(ctx context.Context, collection string) error {
	if _, err := a.collection(collection); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s", a.flavor.Dialect.Quote(collection))
	if _, err := a.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	return nil
}

// ensureCollections создает таблицы всех коллекций реестра
func (a *Adapter) ensureCollections(ctx context.Context) error {
	for _, c := range a.mapper.Collections() {
		ddl := a.flavor.Dialect.CreateTable(c.Name, c.IdentityField(), a.jsonDoc)
		if _, err := a.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table for collection %s: %w", c.Name, err)
		}
	}
	return nil
}

// collection сверяет имя коллекции с реестром
func (a *Adapter) collection(name string) (mapping.Collection, error) {
	c, ok := a.mapper.Collection(name)
	if !ok {
		return mapping.Collection{}, fmt.Errorf("%w: %s", adapters.ErrUnknownCollection, name)
	}
	return c, nil
}
