package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pv-tools/signal-atlas/pkg/models/domain"
	"github.com/pv-tools/signal-atlas/pkg/services/archive"
	"github.com/pv-tools/signal-atlas/pkg/services/report"
)

type ArchiveCmd struct {
	bucket    string
	key       string
	drug      string
	reaction  string
	generator *report.Generator
}

func NewArchiveCmd(generator *report.Generator) *cobra.Command {
	ac := &ArchiveCmd{generator: generator}
	cmd := &cobra.Command{
		Use:   "archive <csv>",
		Short: "Run signal detection and archive the report to S3",
		Args:  cobra.ExactArgs(1),
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.bucket, "bucket", "", "Destination S3 bucket")
	cmd.Flags().StringVar(&ac.key, "key", "", "Destination object key (defaults to <dataset>.txt)")
	cmd.Flags().StringVar(&ac.drug, "drug", "", "Restrict the analysis to one drug")
	cmd.Flags().StringVar(&ac.reaction, "reaction", "", "Restrict the analysis to one reaction")

	_ = cmd.MarkFlagRequired("bucket")

	return cmd
}

func (ac *ArchiveCmd) run(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	filter := domain.CaseFilter{Drug: ac.drug, Reaction: ac.reaction}
	rep, err := ac.generator.Generate(ds, filter, []string{report.AnalysisAll})
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	ctx := cmd.Context()
	store, err := archive.NewS3Store(ctx)
	if err != nil {
		return err
	}

	key := ac.key
	if key == "" {
		key = datasetName(args[0]) + ".txt"
	}

	if err := archive.NewArchiver(store).Archive(ctx, rep, ac.bucket, key); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "archived report to s3://%s/%s\n", ac.bucket, key)
	return nil
}
