package main

import (
	"os"

	"github.com/mdxcapital/capitalflow/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
