package main

import (
	"os"

	"github.com/quentinrf/spectrum-reader/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
