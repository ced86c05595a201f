package main

import "fmt"

const version = "0.3.0"

// PrintVersion prints version information
func PrintVersion() {
	fmt.Printf("modelcli version %s\n", version)
	fmt.Println("Model - pluggable record storage over a single adapter interface")
	fmt.Println("https://github.com/DealGrocer/model")
}

// PrintHelp prints usage information
func PrintHelp() {
	fmt.Println("Model CLI - manage records in the configured storage")
	fmt.Printf("Version: %s\n\n", version)

	fmt.Println("USAGE:")
	fmt.Println("  modelcli [command] [options]")
	fmt.Println()

	fmt.Println("COMMANDS:")
	fmt.Println()

	fmt.Println("  Storage Operations:")
	fmt.Println("    -ping                      Check that the configured storage is reachable")
	fmt.Println("    -list                      List mapped collections with record counts")
	fmt.Println()

	fmt.Println("  Record Operations:")
	fmt.Println("    -create '<json>'           Create a record from a JSON document")
	fmt.Println("    -find <id>                 Find a record by id")
	fmt.Println("    -all                       Print all records of a collection")
	fmt.Println("    -delete <id>               Delete a record by id")
	fmt.Println("    -clear                     Delete all records of a collection")
	fmt.Println()

	fmt.Println("  Console Operations:")
	fmt.Println("    -console                   Print the database console command")
	fmt.Println("    -exec-console              Launch the database console")
	fmt.Println()

	fmt.Println("OPTIONS:")
	fmt.Println("    -config <file>             Configuration file (default: config.yaml)")
	fmt.Println("    -collection <name>         Collection name for record commands")
	fmt.Println("    -verbose                   Enable debug logging")
	fmt.Println()

	fmt.Println("CONFIG CREATION:")
	fmt.Println("    -create-config-pg          Create sample PostgreSQL config file")
	fmt.Println("    -create-config-sqlite      Create sample SQLite config file")
	fmt.Println("    -create-config-redis       Create sample Redis config file")
	fmt.Println("    -create-config-s3          Create sample S3 config file")
	fmt.Println()

	fmt.Println("EXAMPLES:")
	fmt.Println("  modelcli -create-config-sqlite")
	fmt.Println("  modelcli -ping")
	fmt.Println("  modelcli -create '{\"name\":\"Alice\",\"age\":30}' -collection users")
	fmt.Println("  modelcli -find 1 -collection users")
	fmt.Println("  modelcli -all -collection users")
	fmt.Println("  modelcli -console")
}
