package main

import (
	"fmt"
	"os"

	"github.com/pv-tools/signal-atlas/pkg/runtime/terminal"
	"github.com/pv-tools/signal-atlas/pkg/services/report"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Generator: report.NewGenerator(),
		Output:    os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
