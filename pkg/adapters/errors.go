package adapters

import (
	"errors"
	"fmt"
)

// Ошибки этапов сборки адаптера
// Каждая ошибка фатальна для попытки сборки: реестр не делает retry,
// ошибки конфигурации исправляются правкой конфигурации
var (
	// ErrModuleNotLoadable - модуль адаптера не зарегистрирован
	ErrModuleNotLoadable = errors.New("adapter module not loadable")

	// ErrClassNotFound - модуль есть, но класс адаптера в нем не определен
	ErrClassNotFound = errors.New("adapter class not found")

	// ErrConstructionFailed - конструктор адаптера вернул ошибку
	ErrConstructionFailed = errors.New("adapter construction failed")
)

// ModuleNotLoadableError - ошибка первого этапа сборки
// Модуль "<type>_adapter" отсутствует в реестре: пакет адаптера
// не импортирован или тип указан с опечаткой
type ModuleNotLoadableError struct {
	Type   string // запрошенный тип адаптера
	Module string // вычисленное имя модуля
	Cause  error  // диагностика поиска
}

// Error реализует интерфейс error
func (e *ModuleNotLoadableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot load adapter module %q for type %q: %v", e.Module, e.Type, e.Cause)
	}
	return fmt.Sprintf("cannot load adapter module %q for type %q", e.Module, e.Type)
}

// Unwrap возвращает причину ошибки
func (e *ModuleNotLoadableError) Unwrap() error { return e.Cause }

// Is сопоставляет ошибку с ErrModuleNotLoadable
func (e *ModuleNotLoadableError) Is(target error) bool {
	return target == ErrModuleNotLoadable
}

// NewModuleNotLoadableError создает ошибку загрузки модуля
func NewModuleNotLoadableError(adapterType, module string, cause error) *ModuleNotLoadableError {
	return &ModuleNotLoadableError{Type: adapterType, Module: module, Cause: cause}
}

// ClassNotFoundError - ошибка второго этапа сборки
// Модуль зарегистрирован, но класса с вычисленным именем в нем нет:
// модуль-заглушка или нарушение соглашения об именовании
type ClassNotFoundError struct {
	Module string // модуль, в котором искали
	Class  string // вычисленное имя класса
}

// Error реализует интерфейс error
func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("adapter class %q is not defined in module %q", e.Class, e.Module)
}

// Is сопоставляет ошибку с ErrClassNotFound
func (e *ClassNotFoundError) Is(target error) bool {
	return target == ErrClassNotFound
}

// NewClassNotFoundError создает ошибку поиска класса
func NewClassNotFoundError(module, class string) *ClassNotFoundError {
	return &ClassNotFoundError{Module: module, Class: class}
}

// ConstructionError - ошибка вызова конструктора адаптера
// Класс найден, но конструктор отверг аргументы или не смог установить
// подключение; причина сохраняется и доступна через Unwrap
type ConstructionError struct {
	Class string // имя класса адаптера
	Cause error  // ошибка конструктора
}

// Error реализует интерфейс error
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("adapter %s construction failed: %v", e.Class, e.Cause)
}

// Unwrap возвращает ошибку конструктора
func (e *ConstructionError) Unwrap() error { return e.Cause }

// Is сопоставляет ошибку с ErrConstructionFailed
func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstructionFailed
}

// NewConstructionError создает ошибку конструирования адаптера
func NewConstructionError(class string, cause error) *ConstructionError {
	return &ConstructionError{Class: class, Cause: cause}
}
