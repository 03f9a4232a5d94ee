// Lumen CLI - command-line interface for the Lumen API.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/lumenlabs/lumen-go/cli/commands"
)

// ExitCoder is an interface for errors that have an exit code.
type ExitCoder interface {
	ExitCode() int
}

func main() {
	// Load .env if present so LUMEN_API_KEY can come from a project file.
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		if ec, ok := err.(ExitCoder); ok {
			os.Exit(ec.ExitCode())
		}
		os.Exit(1)
	}
}
