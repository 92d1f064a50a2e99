// docgate - documentation quality gate

package main

import (
	"os"

	"github.com/schoolboyqueue/docgate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
