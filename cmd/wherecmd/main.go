// Command wherecmd evaluates player commands with trailing Where, Distinct,
// Sort and Limit extensions against a typed object world.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/cli"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/extension"
)

func main() {
	extension.Initialize()

	err := cli.NewRootCommand().Execute()
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// Cobra usage errors are not reported by the commands themselves.
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
