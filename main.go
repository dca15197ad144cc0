package main

import (
	"os"

	"github.com/kendall-kelly/tna-tracker-api/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
