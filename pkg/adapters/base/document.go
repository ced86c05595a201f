package base

import (
	"encoding/json"
	"fmt"

	"github.com/DealGrocer/model/pkg/mapping"
)

// EncodeRecord кодирует запись в JSON документ
// Поле-идентификатор не попадает в документ: идентификатор живет
// в ключе хранилища (колонка таблицы, имя файла, ключ Redis)
func EncodeRecord(rec mapping.Record, identity string) ([]byte, error) {
	doc := rec.Clone()
	delete(doc, identity)

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

// DecodeRecord декодирует JSON документ в запись
// Поле-идентификатор заполняется переданным значением id
func DecodeRecord(data []byte, identity string, id any) (mapping.Record, error) {
	rec := make(mapping.Record)
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	rec[identity] = id
	return rec, nil
}
