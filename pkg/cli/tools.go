package cli

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/swaigcheck/swaigcheck/pkg/submission"
	"github.com/swaigcheck/swaigcheck/pkg/util"
)

// NewToolsCmd creates the tools command
func NewToolsCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "tools <submission>",
		Short: "List the SWAIG functions a submission declares",
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

			fns := doc.Functions()
			if len(fns) == 0 {
				fmt.Println("No functions declared.")
				return nil
			}

			bold := color.New(color.Bold)
			for _, fn := range fns {
				bold.Printf("%s\n", fn.Name)
				if fn.Description != "" {
					fmt.Printf("  %s\n", fn.Description)
				}

				required := fn.RequiredArgs()
				if len(required) > 0 {
					fmt.Printf("  required: %s\n", strings.Join(required, ", "))
				}

				if fn.Parameters != nil {
					var optional []string
					for name := range fn.Parameters.Properties {
						if !slices.Contains(required, name) {
							optional = append(optional, name)
						}
					}
					sort.Strings(optional)
					if len(optional) > 0 {
						fmt.Printf("  optional: %s\n", strings.Join(optional, ", "))
					}
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	return cmd
}
