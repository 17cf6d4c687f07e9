package main

import (
	"os"

	"github.com/sgaunet/dsxplorer/pkg/cli"
)

var version = "development"

func main() {
	cli.Version = version
	os.Exit(cli.Execute())
}
