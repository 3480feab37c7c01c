package main

import (
	"github.com/devicelab-dev/pagescout/pkg/cli"
)

func main() {
	cli.Execute()
}
