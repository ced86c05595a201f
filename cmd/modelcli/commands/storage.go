// Package commands implements modelcli commands on top of storage adapters.
package commands

import (
	"context"
	"fmt"

	"github.com/DealGrocer/model/pkg/adapters"
	"github.com/DealGrocer/model/pkg/mapping"
)

// Ping builds the configured adapter and checks storage connectivity
func Ping(ctx context.Context, config adapters.AdapterConfig, m *mapping.Mapper) error {
	// Create adapter
	adapter, err := adapters.Build(ctx, config, m)
	if err != nil {
		return fmt.Errorf("failed to build adapter: %w", err)
	}
	defer adapter.Close(ctx)

	if err := adapter.Ping(ctx); err != nil {
		return fmt.Errorf("storage is not reachable: %w", err)
	}

	fmt.Printf("✓ %s storage is reachable (%s)\n", adapter.Kind(), config.ClassName())
	return nil
}

// List prints mapped collections with record counts
func List(ctx context.Context, config adapters.AdapterConfig, m *mapping.Mapper) error {
	// Create adapter
	adapter, err := adapters.Build(ctx, config, m)
	if err != nil {
		return fmt.Errorf("failed to build adapter: %w", err)
	}
	defer adapter.Close(ctx)

	collections := m.Collections()
	if len(collections) == 0 {
		fmt.Println("No collections are mapped. Add them to the config file.")
		return nil
	}

	// Display results
	fmt.Printf("Found %d collection(s):\n", len(collections))
	for i, c := range collections {
		records, err := adapter.All(ctx, c.Name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", c.Name, err)
		}
		fmt.Printf("  %d. %s - %d record(s), identity: %s\n", i+1, c.Name, len(records), c.IdentityField())
	}

	return nil
}
