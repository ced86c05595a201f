package adapters

import (
	"context"
	"errors"

	"github.com/DealGrocer/model/pkg/mapping"
)

// Ошибки операций с данными, общие для всех адаптеров
var (
	// ErrRecordNotFound - запись с данным идентификатором не существует
	ErrRecordNotFound = errors.New("record not found")

	// ErrUnknownCollection - коллекция не зарегистрирована в Mapper
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrNotConnected - операция на закрытом или не подключенном адаптере
	ErrNotConnected = errors.New("adapter not connected")
)

// Adapter - универсальный интерфейс доступа к данным
// Реализуется каждым конкретным адаптером (memory, sql, redis, file, s3)
type Adapter interface {
	// ========== Lifecycle ==========

	// Kind возвращает тип адаптера: "memory", "sql", "redis", "file", "s3"
	Kind() string

	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error

	// Close освобождает ресурсы адаптера
	Close(ctx context.Context) error

	// ========== Данные ==========

	// Create сохраняет новую запись и присваивает ей идентификатор
	// Стратегия генерации идентификаторов своя у каждого адаптера;
	// значение идентификатора из rec игнорируется
	// Возвращает сохраненную запись с заполненным идентификатором
	Create(ctx context.Context, collection string, rec mapping.Record) (mapping.Record, error)

	// Update заменяет существующую запись
	// Идентификатор берется из поля-идентификатора rec
	Update(ctx context.Context, collection string, rec mapping.Record) error

	// Delete удаляет запись по идентификатору
	Delete(ctx context.Context, collection string, id any) error

	// Find возвращает запись по идентификатору
	Find(ctx context.Context, collection string, id any) (mapping.Record, error)

	// All возвращает все записи коллекции в детерминированном порядке
	All(ctx context.Context, collection string) ([]mapping.Record, error)

	// Clear удаляет все записи коллекции
	Clear(ctx context.Context, collection string) error
}

// Options - дополнительные параметры конструктора адаптера
type Options struct {
	// Extensions - список расширений из AdapterConfig, порядок сохранен
	// Реестр передает список как есть; адаптер интерпретирует известные
	// ему расширения и игнорирует остальные
	Extensions []string
}

// HasExtension проверяет наличие расширения в списке
func (o Options) HasExtension(name string) bool {
	for _, ext := range o.Extensions {
		if ext == name {
			return true
		}
	}
	return false
}

// Constructor - функция-конструктор адаптера
// Вызывается реестром на втором этапе сборки: получает реестр коллекций,
// URI подключения и опции, возвращает готовый к работе адаптер
// Ошибка конструктора оборачивается реестром в ConstructionError
type Constructor func(ctx context.Context, m *mapping.Mapper, uri string, opts Options) (Adapter, error)
