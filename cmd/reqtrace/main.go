package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/cli"

	// Language scanners register themselves on import.
	_ "github.com/felixgeelhaar/reqtrace/internal/infrastructure/scanner/golang"
	_ "github.com/felixgeelhaar/reqtrace/internal/infrastructure/scanner/python"
)

func main() {
	if err := cli.Execute(); err != nil {
		var cliErr *cli.CLIError
		if errors.As(err, &cliErr) {
			fmt.Fprintln(os.Stderr, "Error:", cliErr.Error())
			if cliErr.Hint != "" {
				fmt.Fprintln(os.Stderr, "Hint:", cliErr.Hint)
			}
			os.Exit(cliErr.ExitCode)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
