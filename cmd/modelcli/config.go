package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/DealGrocer/model/pkg/adapters"
	"github.com/DealGrocer/model/pkg/mapping"
)

// Config represents the main configuration structure
type Config struct {
	Database    DatabaseConfig     `yaml:"database"`
	Collections []CollectionConfig `yaml:"collections,omitempty"`
	Logging     LoggingConfig      `yaml:"logging,omitempty"`
}

// DatabaseConfig contains storage connection settings
type DatabaseConfig struct {
	Type       string   `yaml:"type"`                 // memory, sql, redis, file, s3
	Engine     string   `yaml:"engine,omitempty"`     // SQL engine: postgres, mysql, sqlite, mssql
	URI        string   `yaml:"uri,omitempty"`        // Full connection URI (overrides the fields below)
	Extensions []string `yaml:"extensions,omitempty"` // Adapter extensions (pg_json, zstd, checksum)
	Host       string   `yaml:"host,omitempty"`       // For network storages
	Port       int      `yaml:"port,omitempty"`       // Storage port
	Database   string   `yaml:"database,omitempty"`   // Database name, file path, bucket or Redis db number
	User       string   `yaml:"user,omitempty"`       // Username or access key
	Password   string   `yaml:"password,omitempty"`   // Password or secret key
	SSLMode    string   `yaml:"sslmode,omitempty"`    // PostgreSQL SSL mode
}

// CollectionConfig maps a collection to its identity field
type CollectionConfig struct {
	Name     string `yaml:"name"`
	Identity string `yaml:"identity,omitempty"` // Default: id
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
}

// LoadConfig loads configuration from YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to YAML file
func SaveConfig(filename string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateSampleConfig creates sample configuration for different storage types
func CreateSampleConfig(kind string) *Config {
	config := &Config{
		Collections: []CollectionConfig{
			{Name: "users"},
			{Name: "orders", Identity: "order_id"},
		},
		Logging: LoggingConfig{Level: "info"},
	}

	switch kind {
	case "postgres", "postgresql":
		config.Database = DatabaseConfig{
			Type:       "sql",
			Engine:     "postgres",
			Host:       "localhost",
			Port:       5432,
			Database:   "mydb",
			User:       "postgres",
			Password:   "password",
			SSLMode:    "disable",
			Extensions: []string{"pg_json"},
		}

	case "sqlite":
		config.Database = DatabaseConfig{
			Type:     "sql",
			Engine:   "sqlite",
			Database: "database.db",
		}

	case "redis":
		config.Database = DatabaseConfig{
			Type:     "redis",
			Host:     "localhost",
			Port:     6379,
			Database: "0",
		}

	case "s3":
		config.Database = DatabaseConfig{
			Type: "s3",
			URI:  "s3://my-bucket/app?region=us-east-1",
		}
	}

	return config
}

// Mapper builds the collection registry from config
func (c *Config) Mapper() *mapping.Mapper {
	m := mapping.New()
	for _, col := range c.Collections {
		m.Map(mapping.Collection{Name: col.Name, Identity: col.Identity})
	}
	return m
}

// AdapterConfig builds the adapter configuration from config
func (c *Config) AdapterConfig() adapters.AdapterConfig {
	return adapters.NewAdapterConfig(c.Database.Type, c.Database.BuildURI(), c.Database.Extensions...)
}

// BuildURI constructs the adapter URI from config
// An explicit uri wins over the individual connection fields
func (c *DatabaseConfig) BuildURI() string {
	if c.URI != "" {
		return c.URI
	}

	switch c.Type {
	case "sql":
		return c.buildSQLURI()

	case "redis":
		host := c.Host
		if host == "" {
			host = "localhost"
		}
		port := c.Port
		if port == 0 {
			port = 6379
		}
		auth := ""
		if c.User != "" || c.Password != "" {
			auth = fmt.Sprintf("%s:%s@", c.User, c.Password)
		}
		db := c.Database
		if db == "" {
			db = "0"
		}
		return fmt.Sprintf("redis://%s%s:%d/%s", auth, host, port, db)

	case "file":
		return "file://" + c.Database

	case "s3":
		if c.User != "" {
			return fmt.Sprintf("s3://%s:%s@%s", c.User, c.Password, c.Database)
		}
		return "s3://" + c.Database

	case "memory":
		return "memory://local"

	default:
		return ""
	}
}

// buildSQLURI constructs an engine-specific SQL connection URI
func (c *DatabaseConfig) buildSQLURI() string {
	switch c.Engine {
	case "postgres", "postgresql":
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.Database, sslMode)

	case "mysql", "mysql2":
		return fmt.Sprintf("mysql://%s:%s@%s:%d/%s",
			c.User, c.Password, c.Host, c.Port, c.Database)

	case "mssql", "sqlserver":
		return fmt.Sprintf("mssql://%s:%s@%s:%d/%s",
			c.User, c.Password, c.Host, c.Port, c.Database)

	case "sqlite", "sqlite3":
		return "sqlite://" + c.Database

	default:
		return ""
	}
}
