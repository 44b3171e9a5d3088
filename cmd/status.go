package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/workpunch/punch/internal/model"
	"github.com/workpunch/punch/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's attendance and sync state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	now := time.Now()

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer a.Close()

	status, err := a.service.TodayStatus(ctx, a.user(), now)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	rec, err := a.service.TodayRecord(ctx, a.user(), now)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	switch status {
	case model.NotClockedIn:
		fmt.Println("Not clocked in today.")
	case model.Working:
		fmt.Println("Working:")
		fmt.Printf("  In:      %s\n", timecalc.FormatClock(rec.CheckIn))
		fmt.Printf("  Elapsed: %s\n", timecalc.FormatHours(timecalc.Hours(*rec.CheckIn, now)))
	case model.Done:
		fmt.Println("Done for today:")
		fmt.Printf("  In:    %s\n", timecalc.FormatClock(rec.CheckIn))
		fmt.Printf("  Out:   %s\n", timecalc.FormatClock(rec.CheckOut))
		fmt.Printf("  Hours: %s\n", timecalc.FormatHours(rec.TotalHours))
	}

	pending, err := a.queue.Len(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if pending > 0 {
		fmt.Printf("Pending sync: %d mutations\n", pending)
	}

	watermark, err := a.store.LastSync(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if watermark == nil {
		fmt.Println("Last sync: never")
	} else {
		fmt.Printf("Last sync: %s\n", watermark.Local().Format("2006-01-02 15:04"))
	}
	return nil
}
