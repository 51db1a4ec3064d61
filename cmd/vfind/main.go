package main

import (
	"errors"
	"fmt"
	"os"

	"vfind/internal/cli/commands"
	"vfind/internal/common"
)

// Set at build time with -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)
	err := commands.Execute()
	switch {
	case err == nil, errors.Is(err, common.ErrNoMatches):
	case errors.Is(err, common.ErrUsage):
		fmt.Fprintf(os.Stderr, "vfind: %v\nRun 'vfind --help' for usage.\n", err)
	default:
		fmt.Fprintf(os.Stderr, "vfind: %v\n", err)
	}
	os.Exit(commands.ExitCode(err))
}
