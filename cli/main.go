package main

import (
	"os"

	"github.com/jahlborn/jackcessgo/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
