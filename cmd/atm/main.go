package main

import (
	"os"

	"github.com/brainwave-dev/atm/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
