package terminal

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pv-tools/signal-atlas/pkg/runtime/terminal/commands"
	"github.com/pv-tools/signal-atlas/pkg/runtime/terminal/export"
	"github.com/pv-tools/signal-atlas/pkg/services/report"
)

// CLI represents the command-line interface
type CLI struct {
	generator *report.Generator
	renderers map[string]commands.ReportRenderer
	rootCmd   *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Generator *report.Generator
	Output    io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Generator == nil {
		opts.Generator = report.NewGenerator()
	}

	cli := &CLI{
		generator: opts.Generator,
		renderers: map[string]commands.ReportRenderer{
			"table": export.NewReporter(opts.Output),
			"text":  NewReporter(opts.Output),
		},
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signal-atlas",
		Short: "Drug safety signal detection tool",
	}

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.generator, cli.renderers))
	cmd.AddCommand(commands.NewCapacityCmd())
	cmd.AddCommand(commands.NewArchiveCmd(cli.generator))

	return cmd
}
