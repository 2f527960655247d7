// ABOUTME: CLI command for deleting every stored workout.
// ABOUTME: Asks for confirmation unless --yes is given.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all workouts",
	Long: `Delete every stored workout and start over with an empty map.

This is a DESTRUCTIVE operation. There is no undo; export first if you
want a backup:

  mapty export json -o backup.json
  mapty reset`,
	Annotations: map[string]string{
		sessionAnnotation: sessionQuiet,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !resetYes {
			fmt.Fprintln(out, "This will PERMANENTLY DELETE all workouts.")
			if !confirm(cmd, "Type 'reset' to confirm: ", "reset") {
				fmt.Fprintln(out, "Canceled.")
				return nil
			}
		}

		count := len(mapty.Session().Workouts())
		if err := mapty.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		color.New(color.FgGreen).Fprintf(out, "✓ Deleted %d workouts\n", count)
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "skip confirmation")
	rootCmd.AddCommand(resetCmd)
}
