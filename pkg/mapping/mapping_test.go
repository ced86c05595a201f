package mapping_test

import (
	"testing"

	"github.com/DealGrocer/model/pkg/mapping"
)

// TestMapper_MapAndLookup проверяет регистрацию и поиск коллекций
func TestMapper_MapAndLookup(t *testing.T) {
	m := mapping.New()
	m.Map(mapping.Collection{Name: "users"})
	m.Map(mapping.Collection{Name: "orders", Identity: "order_id"})

	c, ok := m.Collection("users")
	if !ok {
		t.Fatal("Expected collection 'users' to be registered")
	}
	if c.IdentityField() != "id" {
		t.Errorf("IdentityField() = %q, want %q", c.IdentityField(), "id")
	}

	c, ok = m.Collection("orders")
	if !ok {
		t.Fatal("Expected collection 'orders' to be registered")
	}
	if c.IdentityField() != "order_id" {
		t.Errorf("IdentityField() = %q, want %q", c.IdentityField(), "order_id")
	}

	if m.Has("unknown") {
		t.Error("Has('unknown') = true, want false")
	}
}

// TestMapper_RemapReplaces проверяет, что повторная регистрация заменяет описание
func TestMapper_RemapReplaces(t *testing.T) {
	m := mapping.New()
	m.Map(mapping.Collection{Name: "users", Identity: "uuid"})
	m.Map(mapping.Collection{Name: "users"})

	c, _ := m.Collection("users")
	if c.IdentityField() != "id" {
		t.Errorf("IdentityField() after remap = %q, want %q", c.IdentityField(), "id")
	}
}

// TestMapper_CollectionsSorted проверяет детерминированный порядок коллекций
func TestMapper_CollectionsSorted(t *testing.T) {
	m := mapping.New()
	m.Map(mapping.Collection{Name: "zebras"})
	m.Map(mapping.Collection{Name: "apples"})
	m.Map(mapping.Collection{Name: "mangos"})

	list := m.Collections()
	if len(list) != 3 {
		t.Fatalf("Expected 3 collections, got %d", len(list))
	}

	want := []string{"apples", "mangos", "zebras"}
	for i, c := range list {
		if c.Name != want[i] {
			t.Errorf("Collections()[%d] = %q, want %q", i, c.Name, want[i])
		}
	}
}

// TestMapper_NilSafe проверяет, что nil реестр ведет себя как пустой
func TestMapper_NilSafe(t *testing.T) {
	var m *mapping.Mapper

	if m.Has("users") {
		t.Error("nil mapper Has() = true, want false")
	}
	if list := m.Collections(); list != nil {
		t.Errorf("nil mapper Collections() = %v, want nil", list)
	}
}

// TestRecord_Clone проверяет независимость копии записи
func TestRecord_Clone(t *testing.T) {
	rec := mapping.Record{"id": int64(1), "name": "alpha"}
	clone := rec.Clone()

	clone["name"] = "beta"
	if rec["name"] != "alpha" {
		t.Errorf("Original record changed after clone mutation: %v", rec["name"])
	}

	if c := mapping.Record(nil).Clone(); c != nil {
		t.Errorf("Clone of nil record = %v, want nil", c)
	}
}
