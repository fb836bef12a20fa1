package main

import (
	"os"

	"mitra/cmd/mitra/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
