package main

import "flag"

// Flags holds all command-line flags
type Flags struct {
	// Commands
	Ping        *bool
	List        *bool
	Create      *string
	Find        *string
	All         *bool
	Delete      *string
	Clear       *bool
	Console     *bool
	ExecConsole *bool

	// Options
	Config     *string
	Collection *string
	Verbose    *bool

	// Config Creation
	CreateConfigPG     *bool
	CreateConfigSQLite *bool
	CreateConfigRedis  *bool
	CreateConfigS3     *bool

	// Misc
	Version *bool
	Help    *bool
}

// ParseFlags defines and parses all command-line flags
func ParseFlags() *Flags {
	f := &Flags{}

	// Commands
	f.Ping = flag.Bool("ping", false, "Check that the configured storage is reachable")
	f.List = flag.Bool("list", false, "List mapped collections with record counts")
	f.Create = flag.String("create", "", "Create a record from a JSON document (use with -collection)")
	f.Find = flag.String("find", "", "Find a record by id (use with -collection)")
	f.All = flag.Bool("all", false, "Print all records of a collection (use with -collection)")
	f.Delete = flag.String("delete", "", "Delete a record by id (use with -collection)")
	f.Clear = flag.Bool("clear", false, "Delete all records of a collection (use with -collection)")
	f.Console = flag.Bool("console", false, "Print the database console command for the configured URI")
	f.ExecConsole = flag.Bool("exec-console", false, "Launch the database console for the configured URI")

	// Options
	f.Config = flag.String("config", "config.yaml", "Configuration file path")
	f.Collection = flag.String("collection", "", "Collection name for record commands")
	f.Verbose = flag.Bool("verbose", false, "Enable debug logging")

	// Config Creation
	f.CreateConfigPG = flag.Bool("create-config-pg", false, "Create sample PostgreSQL config file")
	f.CreateConfigSQLite = flag.Bool("create-config-sqlite", false, "Create sample SQLite config file")
	f.CreateConfigRedis = flag.Bool("create-config-redis", false, "Create sample Redis config file")
	f.CreateConfigS3 = flag.Bool("create-config-s3", false, "Create sample S3 config file")

	// Misc
	f.Version = flag.Bool("version", false, "Show version information")
	f.Help = flag.Bool("help", false, "Show usage with examples")

	flag.Parse()

	return f
}
