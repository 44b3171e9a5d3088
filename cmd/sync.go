package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/workpunch/punch/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Deliver queued offline mutations to the remote backend",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer a.Close()

	a.monitor.Check(ctx)

	res, err := a.syncer.Sync(ctx)

	var partial *syncer.PartialFailureError
	switch {
	case errors.Is(err, syncer.ErrOffline):
		pending, _ := a.queue.Len(ctx)
		fmt.Printf("Offline – sync skipped (%d pending).\n", pending)
		return nil
	case errors.Is(err, syncer.ErrAlreadyInProgress):
		fmt.Println("A sync is already running – skipped.")
		return nil
	case errors.As(err, &partial):
		fmt.Printf("Synced %d mutations; %d failed and will be retried.\n",
			res.Delivered, partial.Failed)
		os.Exit(1)
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if res.Delivered == 0 {
		fmt.Println("Nothing to sync.")
		return nil
	}
	fmt.Printf("Synced %d mutations.\n", res.Delivered)
	return nil
}
