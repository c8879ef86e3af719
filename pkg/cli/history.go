package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/swaigcheck/swaigcheck/pkg/gradebook"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var dbPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded grading runs from the gradebook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			store, err := gradebook.Open(ctx, dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(ctx, limit)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("No grading runs recorded.")
				return nil
			}

			green := color.New(color.FgGreen)
			red := color.New(color.FgRed)

			for _, record := range records {
				fmt.Printf("%s  %s  %-20s %3d/%-3d ",
					record.CreatedAt.Format("2006-01-02 15:04:05"),
					record.ID, record.Submission, record.Total, record.MaxPoints)
				if record.Passed {
					green.Println("PASSED")
				} else {
					red.Println("FAILED")
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "swaigcheck.db", "Gradebook database path")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list (0 = all)")

	return cmd
}
