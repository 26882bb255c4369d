package main

import (
	"os"

	"github.com/ihildy/weekhours/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
