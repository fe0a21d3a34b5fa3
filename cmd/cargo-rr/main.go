package main

import (
	"os"

	"github.com/brandonbloom/cargo-rr/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:]))
}
