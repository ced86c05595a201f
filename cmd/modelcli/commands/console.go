package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/DealGrocer/model/pkg/console"
)

// ShowConsole prints the database console command for the URI
// Environment values are not echoed to keep passwords off the screen
func ShowConsole(uri string) error {
	cmd, err := console.Build(uri)
	if err != nil {
		return err
	}

	fmt.Println(cmd.Line)

	if len(cmd.Env) > 0 {
		keys := make([]string, 0, len(cmd.Env))
		for k := range cmd.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Printf("environment: %s\n", strings.Join(keys, ", "))
	}
	return nil
}

// ExecConsole launches the database console for the URI
// The command environment carries the password, the process environment
// of modelcli itself stays untouched
func ExecConsole(ctx context.Context, uri string) error {
	cmd, err := console.Build(uri)
	if err != nil {
		return err
	}

	fields := strings.Fields(cmd.Line)
	if len(fields) == 0 {
		return fmt.Errorf("console command is empty")
	}

	proc := exec.CommandContext(ctx, fields[0], fields[1:]...)
	proc.Env = cmd.Environ()
	proc.Stdin = os.Stdin
	proc.Stdout = os.Stdout
	proc.Stderr = os.Stderr

	if err := proc.Run(); err != nil {
		return fmt.Errorf("console exited: %w", err)
	}
	return nil
}
