package main

import (
	"os"

	"github.com/bnema/steamrec/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
