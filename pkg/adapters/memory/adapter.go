// Package memory реализует адаптер хранения в памяти процесса.
// Подходит для тестов и прототипирования: данные не переживают рестарт.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/DealGrocer/model/pkg/adapters"
	"github.com/DealGrocer/model/pkg/adapters/base"
	"github.com/DealGrocer/model/pkg/mapping"
)

// Compile-time check: Adapter должен реализовывать интерфейс adapters.Adapter
var _ adapters.Adapter = (*Adapter)(nil)

// Регистрация адаптера в глобальном реестре
func init() {
	adapters.Register(adapters.ModuleNameFor("memory"), adapters.ClassNameFor("memory"), New)
}

// Adapter хранит записи коллекций в памяти
// Идентификаторы - монотонный счетчик int64 на коллекцию; Clear
// очищает данные, но не сбрасывает счетчик
type Adapter struct {
	mapper *mapping.Mapper

	mu     sync.RWMutex
	data   map[string]map[int64]mapping.Record
	nextID map[string]int64
	closed bool
}

// New создает memory адаптер
// URI и расширения игнорируются; набор допустимых коллекций
// определяется реестром коллекций
func New(ctx context.Context, m *mapping.Mapper, uri string, opts adapters.Options) (adapters.Adapter, error) {
	return &Adapter{
		mapper: m,
		data:   make(map[string]map[int64]mapping.Record),
		nextID: make(map[string]int64),
	}, nil
}

// Kind возвращает тип адаптера
func (a *Adapter) Kind() string {
	return "memory"
}

// Ping проверяет состояние адаптера
func (a *Adapter) Ping(ctx context.Context) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return adapters.ErrNotConnected
	}
	return nil
}

// Close помечает адаптер закрытым и освобождает данные
func (a *Adapter) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.data = nil
	a.nextID = nil
	return nil
}

// Create сохраняет новую запись под следующим идентификатором
func (a *Adapter) Create(ctx context.Context, collection string, rec mapping.Record) (mapping.Record, error) {
	c, err := a.collection(collection)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, adapters.ErrNotConnected
	}

	if a.data[collection] == nil {
		a.data[collection] = make(map[int64]mapping.Record)
	}
	a.nextID[collection]++
	id := a.nextID[collection]

	stored := rec.Clone()
	stored[c.IdentityField()] = id
	a.data[collection][id] = stored

	return stored.Clone(), nil
}

// Update заменяет существующую запись
func (a *Adapter) Update(ctx context.Context, collection string, rec mapping.Record) error {
	c, err := a.collection(collection)
	if err != nil {
		return err
	}

	id, ok := base.Int64ID(rec[c.IdentityField()])
	if !ok {
		return fmt.Errorf("update %s: record has no usable %q value", collection, c.IdentityField())
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return adapters.ErrNotConnected
	}

	if _, exists := a.data[collection][id]; !exists {
		return fmt.Errorf("%w: %s[%d]", adapters.ErrRecordNotFound, collection, id)
	}

	stored := rec.Clone()
	stored[c.IdentityField()] = id
	a.data[collection][id] = stored
	return nil
}

// Delete удаляет запись по идентификатору
func (a *Adapter) Delete(ctx context.Context, collection string, id any) error {
	if _, err := a.collection(collection); err != nil {
		return err
	}

	key, ok := base.Int64ID(id)
	if !ok {
		return fmt.Errorf("%w: %s[%v]", adapters.ErrRecordNotFound, collection, id)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return adapters.ErrNotConnected
	}

	if _, exists := a.data[collection][key]; !exists {
		return fmt.Errorf("%w: %s[%d]", adapters.ErrRecordNotFound, collection, key)
	}
	delete(a.data[collection], key)
	return nil
}

// Find возвращает запись по идентификатору
func (a *Adapter) Find(ctx context.Context, collection string, id any) (mapping.Record, error) {
	if _, err := a.collection(collection); err != nil {
		return nil, err
	}

	key, ok := base.Int64ID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s[%v]", adapters.ErrRecordNotFound, collection, id)
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, adapters.ErrNotConnected
	}

	rec, exists := a.data[collection][key]
	if !exists {
		return nil, fmt.Errorf("%w: %s[%d]", adapters.ErrRecordNotFound, collection, key)
	}
	return rec.Clone(), nil
}

// All возвращает все записи коллекции в порядке возрастания идентификатора
func (a *Adapter) All(ctx context.Context, collection string) ([]mapping.Record, error) {
	if _, err := a.collection(collection); err != nil {
		return nil, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil, adapters.ErrNotConnected
	}

	ids := make([]int64, 0, len(a.data[collection]))
	for id := range a.data[collection] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	records := make([]mapping.Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, a.data[collection][id].Clone())
	}
	return records, nil
}

// Clear удаляет все записи коллекции, счетчик идентификаторов сохраняется
func (a *Adapter) Clear(ctx context.Context, collection string) error {
	if _, err := a.collection(collection); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return adapters.ErrNotConnected
	}

	delete(a.data, collection)
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
