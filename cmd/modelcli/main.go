package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DealGrocer/model/cmd/modelcli/commands"

	// Adapter registration
	_ "github.com/DealGrocer/model/pkg/adapters/file"
	_ "github.com/DealGrocer/model/pkg/adapters/memory"
	_ "github.com/DealGrocer/model/pkg/adapters/redis"
	_ "github.com/DealGrocer/model/pkg/adapters/s3"
	_ "github.com/DealGrocer/model/pkg/adapters/sql"

	// SQL engine registration
	_ "github.com/DealGrocer/model/pkg/adapters/sql/mssql"
	_ "github.com/DealGrocer/model/pkg/adapters/sql/mysql"
	_ "github.com/DealGrocer/model/pkg/adapters/sql/postgres"
	_ "github.com/DealGrocer/model/pkg/adapters/sql/sqlite"
)

func main() {
	ctx := context.Background()

	// Parse flags
	flags := ParseFlags()

	// Pretty console log; switch to JSON via log.Logger = zerolog.New(os.Stderr)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Handle version
	if *flags.Version {
		PrintVersion()
		os.Exit(0)
	}

	// Handle help
	if *flags.Help {
		PrintHelp()
		os.Exit(0)
	}

	// Handle config creation
	if *flags.CreateConfigPG {
		createConfigTemplate("postgres")
		return
	}
	if *flags.CreateConfigSQLite {
		createConfigTemplate("sqlite")
		return
	}
	if *flags.CreateConfigRedis {
		createConfigTemplate("redis")
		return
	}
	if *flags.CreateConfigS3 {
		createConfigTemplate("s3")
		return
	}

	// Load configuration
	config, err := LoadConfig(*flags.Config)
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	applyLogLevel(config.Logging.Level, *flags.Verbose)

	uri := config.Database.BuildURI()
	mapper := config.Mapper()
	adapterConfig := config.AdapterConfig()

	// Route commands
	var cmdErr error
	switch {
	case *flags.Ping:
		cmdErr = commands.Ping(ctx, adapterConfig, mapper)
	case *flags.List:
		cmdErr = commands.List(ctx, adapterConfig, mapper)
	case *flags.Create != "":
		cmdErr = commands.Create(ctx, adapterConfig, mapper, requireCollection(flags), *flags.Create)
	case *flags.Find != "":
		cmdErr = commands.Find(ctx, adapterConfig, mapper, requireCollection(flags), *flags.Find)
	case *flags.All:
		cmdErr = commands.All(ctx, adapterConfig, mapper, requireCollection(flags))
	case *flags.Delete != "":
		cmdErr = commands.Delete(ctx, adapterConfig, mapper, requireCollection(flags), *flags.Delete)
	case *flags.Clear:
		cmdErr = commands.Clear(ctx, adapterConfig, mapper, requireCollection(flags))
	case *flags.Console:
		cmdErr = commands.ShowConsole(uri)
	case *flags.ExecConsole:
		cmdErr = commands.ExecConsole(ctx, uri)
	default:
		PrintHelp()
		os.Exit(1)
	}

	// Handle errors
	if cmdErr != nil {
		fatal("Command failed: %v", cmdErr)
	}
}

// applyLogLevel maps the configured level to zerolog; -verbose wins
func applyLogLevel(level string, verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "", "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// requireCollection returns the -collection value or exits
func requireCollection(flags *Flags) string {
	if *flags.Collection == "" {
		fatal("-collection is required for this command")
	}
	return *flags.Collection
}

// createConfigTemplate creates a sample configuration file
func createConfigTemplate(kind string) {
	config := CreateSampleConfig(kind)

	if err := SaveConfig("config.yaml", config); err != nil {
		fatal("Failed to save config: %v", err)
	}

	fmt.Printf("✓ Created sample %s config: config.yaml\n", kind)
	fmt.Println("Edit the file with your connection settings and run:")
	fmt.Println("  modelcli -ping -config config.yaml")
}

// fatal prints error and exits
func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
