package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/workpunch/punch/internal/attendance"
	"github.com/workpunch/punch/internal/timecalc"
)

var outCmd = &cobra.Command{
	Use:   "out",
	Short: "Clock out for today",
	Args:  cobra.NoArgs,
	RunE:  runOut,
}

func runOut(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	now := time.Now()

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer a.Close()

	a.monitor.Check(ctx)

	rec, err := a.service.ClockOut(ctx, a.user(), now)
	switch {
	case errors.Is(err, attendance.ErrNotClockedIn):
		fmt.Fprintln(os.Stderr, "Not clocked in today.")
		os.Exit(1)
	case errors.Is(err, attendance.ErrAlreadyClockedOut):
		fmt.Fprintln(os.Stderr, "Already clocked out today.")
		os.Exit(1)
	case errors.Is(err, attendance.ErrInvalidInterval):
		fmt.Fprintln(os.Stderr, "Clock-out time is before today's clock-in; check the system clock.")
		os.Exit(1)
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Clocked out at %s. Worked %s today.\n",
		timecalc.FormatClock(rec.CheckOut), timecalc.FormatHours(rec.TotalHours))
	if !a.monitor.Online() {
		pending, _ := a.queue.Len(ctx)
		fmt.Printf("Offline – change queued for sync (%d pending).\n", pending)
	}
	return nil
}
