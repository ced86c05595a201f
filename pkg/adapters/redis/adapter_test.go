package redis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/DealGrocer/model/pkg/adapters"
	_ "github.com/DealGrocer/model/pkg/adapters/redis" // Register redis adapter
	"github.com/DealGrocer/model/pkg/mapping"
)

// newAdapter поднимает miniredis и создает redis адаптер
func newAdapter(t *testing.T) adapters.Adapter {
	t.Helper()

	mr := miniredis.RunT(t)

	m := mapping.New()
	m.Map(mapping.Collection{Name: "users"})

	cfg := adapters.NewAdapterConfig("redis", "redis://"+mr.Addr())
	adapter, err := adapters.Build(context.Background(), cfg, m)
	if err != nil {
		t.Fatalf("Failed to build redis adapter: %v", err)
	}
	return adapter
}

// TestRedis_CRUDLifecycle проверяет полный цикл работы с записями
func TestRedis_CRUDLifecycle(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(t)
	defer adapter.Close(ctx)

	if adapter.Kind() != "redis" {
		t.Errorf("Kind() = %q, want %q", adapter.Kind(), "redis")
	}

	// 1. Создаем две записи, INCR выдает идентификаторы по порядку
	first, err := adapter.Create(ctx, "users", mapping.Record{"name": "alpha"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first["id"] != int64(1) {
		t.Errorf("First id = %v, want 1", first["id"])
	}
	second, err := adapter.Create(ctx, "users", mapping.Record{"name": "beta"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if second["id"] != int64(2) {
		t.Errorf("Second id = %v, want 2", second["id"])
	}

	// 2. Читаем обратно
	found, err := adapter.Find(ctx, "users", int64(1))
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if found["name"] != "alpha" {
		t.Errorf("Found name = %v, want alpha", found["name"])
	}

	// 3. Обновляем
	found["name"] = "gamma"
	if err := adapter.Update(ctx, "users", found); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	updated, err := adapter.Find(ctx, "users", int64(1))
	if err != nil {
		t.Fatalf("Find after update failed: %v", err)
	}
	if updated["name"] != "gamma" {
		t.Errorf("Updated name = %v, want gamma", updated["name"])
	}

	// 4. Все записи в порядке идентификаторов, счетчик не попадает в выборку
	all, err := adapter.All(ctx, "users")
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(all))
	}
	if all[0]["id"] != int64(1) || all[1]["id"] != int64(2) {
		t.Errorf("All order = [%v %v], want [1 2]", all[0]["id"], all[1]["id"])
	}

	// 5. Удаляем
	if err := adapter.Delete(ctx, "users", int64(2)); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := adapter.Find(ctx, "users", int64(2)); !errors.Is(err, adapters.ErrRecordNotFound) {
		t.Errorf("Find deleted record: err = %v, want ErrRecordNotFound", err)
	}
}

// TestRedis_NotFound проверяет сигнальные ошибки отсутствующих записей
func TestRedis_NotFound(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(t)
	defer adapter.Close(ctx)

	if _, err := adapter.Find(ctx, "users", 404); !errors.Is(err, adapters.ErrRecordNotFound) {
		t.Errorf("Find missing record: err = %v, want ErrRecordNotFound", err)
	}
	if err := adapter.Delete(ctx, "users", 404); !errors.Is(err, adapters.ErrRecordNotFound) {
		t.Errorf("Delete missing record: err = %v, want ErrRecordNotFound", err)
	}
	err := adapter.Update(ctx, "users", mapping.Record{"id": int64(404), "name": "ghost"})
	if !errors.Is(err, adapters.ErrRecordNotFound) {
		t.Errorf("Update missing record: err = %v, want ErrRecordNotFound", err)
	}
}

// TestRedis_UnknownCollection проверяет сверку коллекций с реестром
func TestRedis_UnknownCollection(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(t)
	defer adapter.Close(ctx)

	if _, err := adapter.Create(ctx, "ghosts", mapping.Record{"x": 1}); !errors.Is(err, adapters.ErrUnknownCollection) {
		t.Errorf("Create in unmapped collection: err = %v, want ErrUnknownCollection", err)
	}
}

// TestRedis_ClearKeepsCounter проверяет, что Clear не сбрасывает счетчик
func TestRedis_ClearKeepsCounter(t *testing.T) {
	ctx := context.Background()
	adapter := newAdapter(t)
	defer adapter.Close(ctx)

	for i := 0; i < 3; i++ {
		if _, err := adapter.Create(ctx, "users", mapping.Record{"n": i}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if err := adapter.Clear(ctx, "users"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	all, err := adapter.All(ctx, "users")
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("Expected empty collection after Clear, got %d records", len(all))
	}

	rec, err := adapter.Create(ctx, "users", mapping.Record{"name": "after"})
	if err != nil {
		t.Fatalf("Create after Clear failed: %v", err)
	}
	if rec["id"] != int64(4) {
		t.Errorf("Id after Clear = %v, want 4", rec["id"])
	}
}

// TestRedis_BadURI проверяет ошибку конструктора на неразборчивом URI
func TestRedis_BadURI(t *testing.T) {
	ctx := context.Background()

	m := mapping.New()
	cfg := adapters.NewAdapterConfig("redis", "not-a-redis-uri")

	_, err := adapters.Build(ctx, cfg, m)
	if err == nil {
		t.Fatal("Expected error for bad redis URI, got nil")
	}
	if !errors.Is(err, adapters.ErrConstructionFailed) {
		t.Errorf("err = %v, want ErrConstructionFailed", err)
	}

	var constructionErr *adapters.ConstructionError
	if !errors.As(err, &constructionErr) {
		t.Fatal("errors.As(*ConstructionError) = false, want true")
	}
	if constructionErr.Class != "RedisAdapter" {
		t.Errorf("Class = %q, want %q", constructionErr.Class, "RedisAdapter")
	}
}
