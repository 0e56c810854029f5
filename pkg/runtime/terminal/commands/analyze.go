package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pv-tools/signal-atlas/pkg/models/domain"
	"github.com/pv-tools/signal-atlas/pkg/services/dataset"
	"github.com/pv-tools/signal-atlas/pkg/services/report"
)

// ReportRenderer is implemented by the plain console reporter and the
// table exporter.
type ReportRenderer interface {
	Handle(report *domain.Report) error
}

type AnalyzeCmd struct {
	drug      string
	reaction  string
	analyses  []string
	format    string
	generator *report.Generator
	renderers map[string]ReportRenderer
}

func NewAnalyzeCmd(generator *report.Generator, renderers map[string]ReportRenderer) *cobra.Command {
	ac := &AnalyzeCmd{generator: generator, renderers: renderers}
	cmd := &cobra.Command{
		Use:   "analyze <csv>",
		Short: "Run signal detection over a case report CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.drug, "drug", "", "Restrict the analysis to one drug")
	cmd.Flags().StringVar(&ac.reaction, "reaction", "", "Restrict the analysis to one reaction")
	cmd.Flags().StringSliceVar(&ac.analyses, "analysis", []string{report.AnalysisAll},
		fmt.Sprintf("Analyses to run (%s)", strings.Join(generator.Analyses(), ", ")))
	cmd.Flags().StringVar(&ac.format, "format", "table", "Output format (table, text)")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, args []string) error {
	renderer, ok := ac.renderers[ac.format]
	if !ok {
		return fmt.Errorf("unknown format %q", ac.format)
	}

	ds, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	filter := domain.CaseFilter{Drug: ac.drug, Reaction: ac.reaction}
	rep, err := ac.generator.Generate(ds, filter, ac.analyses)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	return renderer.Handle(rep)
}

func loadDataset(path string) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	ds, err := dataset.LoadCSV(datasetName(path), f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return ds, nil
}

func datasetName(path string) string {
	base := path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.TrimSuffix(base, ".csv")
}
