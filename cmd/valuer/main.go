package main

import (
	"os"

	"github.com/neil-k-zero/intrinsic-value-calc/cmd/valuer/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
