// Package main provides the pixi-animate CLI.
package main

import (
	"os"

	"github.com/jiborobot/pixi-animate-extension/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
