package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pv-tools/signal-atlas/pkg/services/signal"
)

type CapacityCmd struct {
	incoming   float64
	reviewers  int
	days       int
	throughput float64
}

func NewCapacityCmd() *cobra.Command {
	cc := &CapacityCmd{}
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Project reviewer workload and SLA breach risk",
		RunE:  cc.run,
	}

	cmd.Flags().Float64Var(&cc.incoming, "incoming", 0, "Expected incoming signals over the horizon")
	cmd.Flags().IntVar(&cc.reviewers, "reviewers", 0, "Number of available reviewers")
	cmd.Flags().IntVar(&cc.days, "days", 30, "Projection horizon in days")
	cmd.Flags().Float64Var(&cc.throughput, "throughput", signal.DefaultDailyThroughput,
		"Signals one reviewer clears per day")

	_ = cmd.MarkFlagRequired("incoming")
	_ = cmd.MarkFlagRequired("reviewers")

	return cmd
}

func (cc *CapacityCmd) run(cmd *cobra.Command, args []string) error {
	opts := signal.CapacityOptions{DailyThroughput: cc.throughput}
	proj := signal.ProjectSLARisk(cc.incoming, cc.reviewers, cc.days, opts)
	recommended := signal.RecommendReviewers(cc.incoming, cc.days, 0, opts)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Incoming signals:      %.0f over %d days\n", proj.IncomingSignals, proj.HorizonDays)
	fmt.Fprintf(out, "Reviewers:             %d (%.0f signals/day combined)\n", proj.Reviewers, proj.DailyCapacity)
	fmt.Fprintf(out, "Total capacity:        %.0f\n", proj.TotalCapacity)
	fmt.Fprintf(out, "Utilization:           %.1f%%\n", proj.Utilization*100)
	fmt.Fprintf(out, "SLA breach risk:       %s\n", proj.SLABreachRisk)
	fmt.Fprintf(out, "Recommended reviewers: %d\n", recommended)

	return nil
}
