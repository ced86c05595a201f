package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DealGrocer/model/pkg/adapters"
	"github.com/DealGrocer/model/pkg/mapping"
)

// Create inserts a JSON document into the collection and prints the stored record
func Create(ctx context.Context, config adapters.AdapterConfig, m *mapping.Mapper, collection, doc string) error {
	var rec mapping.Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}

	// Create adapter
	adapter, err := adapters.Build(ctx, config, m)
	if err != nil {
		return fmt.Errorf("failed to build adapter: %w", err)
	}
	defer adapter.Close(ctx)

	stored, err := adapter.Create(ctx, collection, rec)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	return printRecord(stored)
}

// Find prints the record with the given id
func Find(ctx context.Context, config adapters.AdapterConfig, m *mapping.Mapper, collection, id string) error {
	// Create adapter
	adapter, err := adapters.Build(ctx, config, m)
	if err != nil {
		return fmt.Errorf("failed to build adapter: %w", err)
	}
	defer adapter.Close(ctx)

	rec, err := adapter.Find(ctx, collection, id)
	if err != nil {
		return err
	}

	return printRecord(rec)
}

// All prints every record of the collection, one JSON document per line
func All(ctx context.Context, config adapters.AdapterConfig, m *mapping.Mapper, collection string) error {
	// Create adapter
	adapter, err := adapters.Build(ctx, config, m)
	if err != nil {
		return fmt.Errorf("failed to build adapter: %w", err)
	}
	defer adapter.Close(ctx)

	records, err := adapter.All(ctx, collection)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if err := printRecord(rec); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the record with the given id
func Delete(ctx context.Context, config adapters.AdapterConfig, m *mapping.Mapper, collection, id string) error {
	// Create adapter
	adapter, err := adapters.Build(ctx, config, m)
	if err != nil {
		return fmt.Errorf("failed to build adapter: %w", err)
	}
	defer adapter.Close(ctx)

	if err := adapter.Delete(ctx, collection, id); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted %s[%s]\n", collection, id)
	return nil
}

// Clear removes all records of the collection
func Clear(ctx context.Context, config adapters.AdapterConfig, m *mapping.Mapper, collection string) error {
	// Create adapter
	adapter, err := adapters.Build(ctx, config, m)
	if err != nil {
		return fmt.Errorf("failed to build adapter: %w", err)
	}
	defer adapter.Close(ctx)

	if err := adapter.Clear(ctx, collection); err != nil {
		return err
	}

	fmt.Printf("✓ Cleared %s\n", collection)
	return nil
}

// printRecord prints a record as a single JSON line
func printRecord(rec mapping.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
