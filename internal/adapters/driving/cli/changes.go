package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var changesFlags struct {
	since  time.Duration
	titles bool
}

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show recent changes on the site",
	Long: `Reads the recent changes feed of the configured site.

With --titles only the sorted set of changed page titles is printed.`,
	Args: cobra.NoArgs,
	RunE: runChanges,
}

func init() {
	changesCmd.Flags().DurationVar(&changesFlags.since, "since", 0, "Only show changes newer than this (e.g. 30m, 2h)")
	changesCmd.Flags().BoolVar(&changesFlags.titles, "titles", false, "Print only the set of changed titles")
	rootCmd.AddCommand(changesCmd)
}

func runChanges(cmd *cobra.Command, _ []string) error {
	if changesService == nil {
		return errors.New("recent changes service not configured")
	}

	ctx := context.Background()

	if changesFlags.titles {
		titles, err := changesService.ChangedTitles(ctx)
		if err != nil {
			return fmt.Errorf("failed to read recent changes: %w", err)
		}
		for _, t := range titles {
			cmd.Println(t)
		}
		return nil
	}

	var since time.Time
	if changesFlags.since > 0 {
		since = time.Now().Add(-changesFlags.since)
	}

	changes, err := changesService.RecentChanges(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to read recent changes: %w", err)
	}
	if len(changes) == 0 {
		cmd.Println("No recent changes.")
		return nil
	}

	for _, c := range changes {
		cmd.Printf("%s  %-20s  %s\n", c.Date.Local().Format(time.DateTime), c.Author, c.Title)
	}
	return nil
}
