package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetsim/core/engine"
	"github.com/kilianp07/fleetsim/infra/logger"
	"github.com/kilianp07/fleetsim/pkg/export"
	"github.com/kilianp07/fleetsim/qa/scenarios"
)

var simulateFormat string

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.yaml>",
	Short: "Replay a scenario offline and check its expectations",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&simulateFormat, "format", "f", "table", "output format: table, json or csv")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	sc, err := scenarios.Load(args[0])
	if err != nil {
		return err
	}
	res, err := scenarios.Run(sc, engine.WithLogger(logger.New("simulate")))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch simulateFormat {
	case "table":
		err = printResult(out, res)
	case "json":
		err = export.WriteJSON(out, res)
	case "csv":
		err = export.WriteCSV(out, res.Final.Views())
	default:
		return fmt.Errorf("unknown format %q", simulateFormat)
	}
	if err != nil {
		return err
	}

	if diffs := sc.Verify(res); len(diffs) > 0 {
		return fmt.Errorf("scenario %q failed:\n  %s", sc.Name, strings.Join(diffs, "\n  "))
	}
	return nil
}

func printResult(w io.Writer, res *scenarios.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "scenario %s after %d ticks\n\n", res.Name, res.Ticks)
	fmt.Fprintln(tw, "NAME\tSTATUS\tPROGRESS\tDEADLINE\tPROFIT\tFLEXIBILITY")
	for _, v := range res.Final.Views() {
		fmt.Fprintf(tw, "%s\t%s\t%.0f%%\t%g\t%g\t%s\n",
			v.Name, v.Status, v.Progress*100, v.Deadline, v.Profit, v.Flexibility)
	}
	s := res.Summary
	fmt.Fprintf(tw, "\nqueued %d, ongoing %d, completed %d, free vehicles %d\n",
		s.Queued, s.Ongoing, s.Completed, s.FreeVehicles)
	fmt.Fprintf(tw, "realized profit %g, pending profit %g\n", s.RealizedProfit, s.PendingProfit)
	if len(res.Rejected) > 0 {
		fmt.Fprintf(tw, "rejected: %s\n", strings.Join(res.Rejected, ", "))
	}
	return tw.Flush()
}
