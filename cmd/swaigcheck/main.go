package main

import (
	"os"

	"github.com/swaigcheck/swaigcheck/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
