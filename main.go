package main

import (
	"os"

	"github.com/socraticlabs/socratic-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
