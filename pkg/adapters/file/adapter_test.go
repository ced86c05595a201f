package file_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DealGrocer/model/pkg/adapters"
	"github.com/DealGrocer/model/pkg/adapters/file"
	"github.com/DealGrocer/model/pkg/mapping"
)

// newMapper создает реестр коллекций для тестов
func newMapper(t *testing.T) *mapping.Mapper {
	t.Helper()
	m := mapping.New()
	m.Map(mapping.Collection{Name: "users"})
	return m
}

// newAdapter создает file адаптер поверх временной директории
func newAdapter(t *testing.T, extensions ...string) (adapters.Adapter, string) {
	t.Helper()
	root := filepath.Join(t.TempDir(), "data")

	cfg := adapters.NewAdapterConfig("file", "file://"+root, extensions...)
	a, err := cfg.Build(context.Background(), newMapper(t))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	t.Cleanup(func() { a.Close(context.Background()) })
	return a, root
}

// TestFile_CRUD проверяет полный цикл работы с записями
func TestFile_CRUD(t *testing.T) {
	ctx := context.Background()
	a, root := newAdapter(t)

	if a.Kind() != "file" {
		t.Errorf("Kind() = %q, want %q", a.Kind(), "file")
	}
	if err := a.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	// 1. Создаем две записи, идентификаторы выдаются последовательно
	first, err := a.Create(ctx, "users", mapping.Record{"name": "Alice", "age": 30})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if first["id"] != int64(1) {
		t.Errorf("first id = %v, want 1", first["id"])
	}

	second, err := a.Create(ctx, "users", mapping.Record{"name": "Bob"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if second["id"] != int64(2) {
		t.Errorf("second id = %v, want 2", second["id"])
	}

	// 2. Документ лежит на диске под именем <id>.json
	if _, err := os.Stat(filepath.Join(root, "users", "1.json")); err != nil {
		t.Errorf("record file missing: %v", err)
	}

	// 3. Find возвращает сохраненные поля (числа приходят как float64 из JSON)
	found, err := a.Find(ctx, "users", 1)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if found["name"] != "Alice" {
		t.Errorf("name = %v, want Alice", found["name"])
	}
	if found["age"] != float64(30) {
		t.Errorf("age = %v, want 30", found["age"])
	}

	// 4. Update заменяет документ
	found["name"] = "Alice Updated"
	if err := a.Update(ctx, "users", found); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	updated, err := a.Find(ctx, "users", 1)
	if err != nil {
		t.Fatalf("Find() after update error = %v", err)
	}
	if updated["name"] != "Alice Updated" {
		t.Errorf("updated name = %v, want Alice Updated", updated["name"])
	}

	// 5. All возвращает записи в порядке возрастания идентификатора
	all, err := a.All(ctx, "users")
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("All() returned %d records, want 2", len(all))
	}
	if all[0]["id"] != int64(1) || all[1]["id"] != int64(2) {
		t.Errorf("All() order = [%v %v], want [1 2]", all[0]["id"], all[1]["id"])
	}

	// 6. Delete убирает запись и файл
	if err := a.Delete(ctx, "users", 2); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := a.Find(ctx, "users", 2); !errors.Is(err, adapters.ErrRecordNotFound) {
		t.Errorf("Find() after delete error = %v, want ErrRecordNotFound", err)
	}

	t.Log("✓ file adapter CRUD works")
}

// TestFile_Zstd проверяет прозрачное сжатие документов
func TestFile_Zstd(t *testing.T) {
	ctx := context.Background()
	a, root := newAdapter(t, file.ExtensionZstd)

	rec, err := a.Create(ctx, "users", mapping.Record{"name": "Alice", "bio": strings.Repeat("go ", 200)})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// 1. Файл записи получает суффикс .json.zst
	path := filepath.Join(root, "users", "1.json.zst")
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("record file missing: %v", err)
	}

	// 2. На диске лежит не JSON, а сжатый поток
	if len(body) > 0 && body[0] == '{' {
		t.Error("record file is plain JSON, want zstd stream")
	}

	// 3. Чтение прозрачно распаковывает документ
	found, err := a.Find(ctx, "users", rec["id"])
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if found["name"] != "Alice" {
		t.Errorf("name = %v, want Alice", found["name"])
	}

	all, err := a.All(ctx, "users")
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("All() returned %d records, want 1", len(all))
	}

	t.Log("✓ zstd compression works")
}

// TestFile_ChecksumDetectsCorruption проверяет сверку контрольных сумм
func TestFile_ChecksumDetectsCorruption(t *testing.T) {
	ctx := context.Background()
	a, root := newAdapter(t, file.ExtensionChecksum)

	if _, err := a.Create(ctx, "users", mapping.Record{"name": "Alice"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// 1. Рядом с документом лежит файл суммы
	if _, err := os.Stat(filepath.Join(root, "users", "1.sum")); err != nil {
		t.Fatalf("checksum file missing: %v", err)
	}

	// 2. Нетронутая запись читается
	if _, err := a.Find(ctx, "users", 1); err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	// 3. Портим документ на диске, чтение должно отклонить запись
	path := filepath.Join(root, "users", "1.json")
	if err := os.WriteFile(path, []byte(`{"name":"Mallory"}`), 0o644); err != nil {
		t.Fatalf("corrupt record: %v", err)
	}

	_, err := a.Find(ctx, "users", 1)
	if err == nil {
		t.Fatal("Find() on corrupted record succeeded, want checksum error")
	}
	if !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("Find() error = %v, want checksum mismatch", err)
	}

	t.Log("✓ checksum verification works")
}

// TestFile_CounterPersists проверяет, что счетчик переживает переоткрытие и Clear
func TestFile_CounterPersists(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "data")
	uri := "file://" + root

	// 1. Первый адаптер выдает идентификаторы 1 и 2
	a, err := file.New(ctx, newMapper(t), uri, adapters.Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	a.Create(ctx, "users", mapping.Record{"name": "Alice"})
	a.Create(ctx, "users", mapping.Record{"name": "Bob"})
	if err := a.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// 2. Закрытый адаптер отказывает в операциях
	if _, err := a.Find(ctx, "users", 1); !errors.Is(err, adapters.ErrNotConnected) {
		t.Errorf("Find() on closed adapter error = %v, want ErrNotConnected", err)
	}

	// 3. Новый адаптер над той же директорией продолжает нумерацию
	b, err := file.New(ctx, newMapper(t), uri, adapters.Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer b.Close(ctx)

	third, err := b.Create(ctx, "users", mapping.Record{"name": "Carol"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if third["id"] != int64(3) {
		t.Errorf("id after reopen = %v, want 3", third["id"])
	}

	// 4. Clear убирает записи, но не сбрасывает счетчик
	if err := b.Clear(ctx, "users"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	all, err := b.All(ctx, "users")
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 0 {
		t.Errorf("All() after clear returned %d records, want 0", len(all))
	}

	fourth, err := b.Create(ctx, "users", mapping.Record{"name": "Dave"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if fourth["id"] != int64(4) {
		t.Errorf("id after clear = %v, want 4", fourth["id"])
	}
}

// TestFile_NotFound проверяет ошибки по отсутствующим записям
func TestFile_NotFound(t *testing.T) {
	ctx := context.Background()
	a, _ := newAdapter(t)

	if _, err := a.Find(ctx, "users", 404); !errors.Is(err, adapters.ErrRecordNotFound) {
		t.Errorf("Find() error = %v, want ErrRecordNotFound", err)
	}
	if err := a.Delete(ctx, "users", 404); !errors.Is(err, adapters.ErrRecordNotFound) {
		t.Errorf("Delete() error = %v, want ErrRecordNotFound", err)
	}
	if err := a.Update(ctx, "users", mapping.Record{"id": 404, "name": "Ghost"}); !errors.Is(err, adapters.ErrRecordNotFound) {
		t.Errorf("Update() error = %v, want ErrRecordNotFound", err)
	}
}

// TestFile_UnknownCollection проверяет защиту от неотображенных коллекций
func TestFile_UnknownCollection(t *testing.T) {
	ctx := context.Background()
	a, _ := newAdapter(t)

	if _, err := a.Create(ctx, "ghosts", mapping.Record{"name": "Casper"}); !errors.Is(err, adapters.ErrUnknownCollection) {
		t.Errorf("Create() error = %v, want ErrUnknownCollection", err)
	}
	if _, err := a.All(ctx, "ghosts"); !errors.Is(err, adapters.ErrUnknownCollection) {
		t.Errorf("All() error = %v, want ErrUnknownCollection", err)
	}
}

// TestFile_BadURI проверяет отказ конструктора на URI без пути
func TestFile_BadURI(t *testing.T) {
	_, err := file.New(context.Background(), newMapper(t), "file://", adapters.Options{})
	if err == nil {
		t.Fatal("New() with empty path succeeded, want error")
	}
	if !strings.Contains(err.Error(), "no directory path") {
		t.Errorf("New() error = %v, want mention of missing path", err)
	}
}
