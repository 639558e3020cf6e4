// Command skin runs declarative check files and reports every outcome.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/skin/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
