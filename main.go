package main

import (
	"context"
	"os"

	"github.com/ardnew/wrapsetup/cli"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		os.Exit(cli.ExitStatus(err))
	}
}
