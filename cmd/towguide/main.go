// Command towguide extracts a towing guide PDF into a structured document and
// answers per-vehicle towing capacity lookups from it.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/stonebridge-motors/towguide/cmd/towguide/commands"
)

func main() {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
