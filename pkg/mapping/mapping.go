package mapping

import (
	"sort"
	"sync"
)

// DefaultIdentity - имя поля-идентификатора по умолчанию
const DefaultIdentity = "id"

// Record - универсальная единица данных, которой обмениваются адаптеры
// Ключи - имена полей коллекции, значения - произвольные данные
type Record map[string]any

// Clone возвращает поверхностную копию записи
// Адаптеры копируют записи на входе и выходе, чтобы вызывающий код
// не мог изменить внутреннее состояние хранилища
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	clone := make(Record, len(r))
	for k, v := range r {
		clone[k] = v
	}
	return clone
}

// Collection - описание коллекции данных
// Адаптер сам решает, как представить коллекцию: таблица в SQL,
// префикс ключей в Redis, директория на диске
type Collection struct {
	// Name - имя коллекции
	Name string

	// Identity - имя поля-идентификатора записи
	// Пустое значение означает DefaultIdentity
	Identity string
}

// IdentityField возвращает имя поля-идентификатора с учетом умолчания
func (c Collection) IdentityField() string {
	if c.Identity == "" {
		return DefaultIdentity
	}
	return c.Identity
}

// Mapper - реестр коллекций приложения
// Описывает, какими коллекциями оперирует приложение; адаптеры
// сверяются с реестром при каждой операции и берут из него имена
// полей-идентификаторов
type Mapper struct {
	mu          sync.RWMutex
	collections map[string]Collection
}

// New создает пустой реестр коллекций
func New() *Mapper {
	return &Mapper{
		collections: make(map[string]Collection),
	}
}

// Map регистрирует коллекцию в реестре
// Повторная регистрация с тем же именем заменяет описание
func (m *Mapper) Map(c Collection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.collections == nil {
		m.collections = make(map[string]Collection)
	}
	m.collections[c.Name] = c
}

// Collection возвращает описание коллекции по имени
// Для nil реестра любое имя считается незарегистрированным
func (m *Mapper) Collection(name string) (Collection, bool) {
	if m == nil {
		return Collection{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[name]
	return c, ok
}

// Collections возвращает список коллекций, отсортированный по имени
func (m *Mapper) Collections() []Collection {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]Collection, 0, len(m.collections))
	for _, c := range m.collections {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Has проверяет, зарегистрирована ли коллекция
func (m *Mapper) Has(name string) bool {
	_, ok := m.Collection(name)
	return ok
}
