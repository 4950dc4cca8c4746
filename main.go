package main

import (
	"github.com/marketgrid/indexflow/internal/cli"
)

func main() {
	cli.Run()
}
