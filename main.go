package main

import (
	"os"

	"github.com/snipdoc/snipdoc/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], nil))
}
