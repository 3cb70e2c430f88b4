package main

import (
	"os"

	"github.com/dafibh/tally/tally-backend/internal/commands"
)

func main() {
	os.Exit(commands.Execute())
}
