package main

import (
	"os"

	"github.com/kmacleod/gavel/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
