package main

import (
	"os"

	"github.com/evobandits/gmab/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
