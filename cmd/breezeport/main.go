package main

import (
	"os"

	"github.com/breezeport-dev/breezeport/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
