package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyFlags struct {
	entity string
	limit  int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List edits made with wbedit",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFlags.entity, "entity", "", "Only show edits of this entity")
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "Maximum number of edits (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if editHistory == nil {
		return errors.New("edit history not configured")
	}

	records, err := editHistory.History(context.Background(), historyFlags.entity, historyFlags.limit)
	if err != nil {
		return fmt.Errorf("failed to read edit history: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No edits recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tENTITY\tREVISION\tFLAGS\tSUMMARY")
	for _, r := range records {
		flags := "-"
		switch {
		case r.Bot && r.Recovered:
			flags = "bot,recovered"
		case r.Bot:
			flags = "bot"
		case r.Recovered:
			flags = "recovered"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime), r.EntityID, r.RevisionID, flags, r.Summary)
	}
	return w.Flush()
}
