// Command mvsync runs the todo list and its diagnostic tools.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/mvsync/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
