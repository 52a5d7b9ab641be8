package main

import (
	"os"

	"github.com/arlox/arlox/cmd/lox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
