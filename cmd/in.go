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

var inCmd = &cobra.Command{
	Use:   "in",
	Short: "Clock in for today",
	Args:  cobra.NoArgs,
	RunE:  runIn,
}

func runIn(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	now := time.Now()

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer a.Close()

	a.monitor.Check(ctx)

	rec, err := a.service.ClockIn(ctx, a.user(), now)
	if errors.Is(err, attendance.ErrAlreadyClockedIn) {
		fmt.Fprintln(os.Stderr, "Already clocked in today.")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Clocked in at %s\n", timecalc.FormatClock(rec.CheckIn))
	if !a.monitor.Online() {
		pending, _ := a.queue.Len(ctx)
		fmt.Printf("Offline – change queued for sync (%d pending).\n", pending)
	}
	return nil
}
