package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/swaigcheck/swaigcheck/pkg/submission"
	"github.com/swaigcheck/swaigcheck/pkg/util"
)

// NewDumpCmd creates the dump command
func NewDumpCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "dump <submission>",
		Short: "Print the SWML document a submission renders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := submission.Load(args[0])
			if err != nil {
				return fmt.Errorf("failed to load submission: %w", err)
			}

			ctx := util.WithVerbose(context.Background(), verbose)

			doc, err := sub.Document(ctx)
			if err != nil {
				return fmt.Errorf("failed to load submission document: %w", err)
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(doc)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}
