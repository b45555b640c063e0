package main

import (
	"query-batch/cmd/cli"
)

func main() {
	cli.RunCLI()
}
