package main

import (
	"os"

	"github.com/teranos/alman/cmd/alman/commands"
	"github.com/teranos/alman/logger"
)

func main() {
	root := commands.NewRootCmd()
	err := root.Execute()
	logger.Cleanup()
	if err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
