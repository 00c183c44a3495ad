package main

import (
	"os"

	"bplog/internal/cli"
)

func main() {
	os.Exit(cli.Execute(&cli.App{}, os.Args[1:]))
}
