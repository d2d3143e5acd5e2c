package main

import (
	"context"
	"fmt"
	"os"

	"github.com/adamancini/tlaplus-cli/internal/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := cmd.Execute(context.Background(), version, commit, date); err != nil {
		fmt.Fprintln(os.Stderr, cmd.Describe(err))
		os.Exit(cmd.ExitCode(err))
	}
}
