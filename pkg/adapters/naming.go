package adapters

import (
	"strings"
	"unicode"
)

// moduleSuffix - суффикс имени модуля адаптера
const moduleSuffix = "_adapter"

// ModuleNameFor возвращает имя модуля адаптера для типа
// Соглашение: "<type>_adapter", например "sql" -> "sql_adapter"
func ModuleNameFor(adapterType string) string {
	return adapterType + moduleSuffix
}

// ClassNameFor возвращает имя класса адаптера для типа
// Имя модуля конвертируется из snake_case в PascalCase:
//
//	"sql"           -> "SqlAdapter"
//	"memory"        -> "MemoryAdapter"
//	"pg_json_thing" -> "PgJsonThingAdapter"
//
// Функция чистая: результат зависит только от аргумента
func ClassNameFor(adapterType string) string {
	return pascalCase(ModuleNameFor(adapterType))
}

// pascalCase конвертирует snake_case строку в PascalCase
// Пустые сегменты пропускаются, регистр остальных букв сохраняется
func pascalCase(s string) string {
	var b strings.Builder
	for _, part := range strings.Split(s, "_") {
		if part == "" {
			continue
		}
		runes := []rune(part)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}
