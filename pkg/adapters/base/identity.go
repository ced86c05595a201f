// Package base содержит общие хелперы конкретных адаптеров:
// приведение идентификаторов и кодирование записей в JSON документы.
// Пакет не зависит от конкретных хранилищ.
package base

import (
	"fmt"
	"strconv"
)

// Int64ID приводит значение идентификатора к int64
// Понимает целые типы, float64 без дробной части (результат JSON
// декодирования) и строки из цифр
func Int64ID(v any) (int64, bool) {
	switch id := v.(type) {
	case int64:
		return id, true
	case int:
		return int64(id), true
	case int32:
		return int64(id), true
	case uint:
		return int64(id), true
	case uint32:
		return int64(id), true
	case uint64:
		return int64(id), true
	case float64:
		if id == float64(int64(id)) {
			return int64(id), true
		}
		return 0, false
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// IDKey возвращает строковую форму идентификатора для ключей и имен файлов
// Целочисленные идентификаторы форматируются без дробной части
func IDKey(v any) string {
	if n, ok := Int64ID(v); ok {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprint(v)
}
