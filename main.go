package main

import (
	"os"

	"github.com/bimmerbailey/histshrink/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
