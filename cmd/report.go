package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/workpunch/punch/internal/model"
	"github.com/workpunch/punch/internal/timecalc"
)

var reportMonth string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show monthly attendance report",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "Month to report (YYYY-MM, default current)")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	now := time.Now()

	ref := now
	if reportMonth != "" {
		parsed, err := time.ParseInLocation(model.MonthKey, reportMonth, now.Location())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --month %q, expected YYYY-MM.\n", reportMonth)
			os.Exit(1)
		}
		ref = parsed
	}

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer a.Close()

	recs, err := a.store.RecordsForMonth(ctx, a.user(), timecalc.MonthOf(ref))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	total, err := a.service.MonthlyHours(ctx, a.user(), ref)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Month %s\n", timecalc.MonthOf(ref))
	fmt.Println("--------------------------------")
	for _, rec := range recs {
		hours := "-"
		if rec.TotalHours > 0 {
			hours = timecalc.FormatHours(rec.TotalHours)
		}
		fmt.Printf("%-12s%-8s%-8s%s\n",
			rec.Date,
			timecalc.FormatClock(rec.CheckIn),
			timecalc.FormatClock(rec.CheckOut),
			hours)
	}
	fmt.Println("--------------------------------")
	fmt.Printf("%-28s%s\n", "Total", timecalc.FormatHours(total))
	return nil
}
