package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/workpunch/punch/internal/syncer"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch connectivity and sync automatically on reconnect",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer a.Close()

	a.monitor.OnOnline(func(ctx context.Context) {
		res, err := a.syncer.Sync(ctx)
		var partial *syncer.PartialFailureError
		switch {
		case errors.Is(err, syncer.ErrAlreadyInProgress):
			// Benign: the in-flight run covers this trigger.
		case errors.As(err, &partial):
			fmt.Printf("Reconnected: synced %d mutations, %d failed (will retry).\n",
				res.Delivered, partial.Failed)
		case err != nil:
			fmt.Fprintf(os.Stderr, "Sync failed: %v\n", err)
		case res.Delivered > 0:
			fmt.Printf("Reconnected: synced %d mutations.\n", res.Delivered)
		}
	})

	fmt.Printf("Watching connectivity every %ds – Ctrl-C to stop.\n",
		a.cfg.Sync.ProbeIntervalSeconds)
	a.monitor.Start(ctx)

	<-ctx.Done()
	a.monitor.Wait()
	fmt.Println("Stopped.")
	return nil
}
