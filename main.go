package main

import (
	"os"

	"github.com/TFMV/edgesketch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
