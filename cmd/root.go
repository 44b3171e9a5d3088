package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagUser    string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "punch",
	Short: "punch – an offline-first attendance tracker",
	Long: `punch is a single-binary attendance tracker that keeps working without
a network. Clock-ins and clock-outs are stored locally in ~/.punch/ and any
changes made while offline are queued and synced once connectivity returns.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "User to act as (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(inCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(watchCmd)
}
