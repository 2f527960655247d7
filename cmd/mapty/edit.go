// ABOUTME: CLI commands for editing and deleting workouts.
// ABOUTME: Both accept a full ID or a unique ID prefix.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/mapty/internal/session"
	"github.com/harperreed/mapty/internal/terminal"
	"github.com/spf13/cobra"
)

var (
	editType      string
	editDistance  string
	editDuration  string
	editCadence   string
	editElevation string
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a workout",
	Long: `Change a workout's values. Only the flags you pass are changed.

The pace or speed and the description are recomputed; the ID, date and
location stay the same. Changing --type requires the new type's field
(--cadence for running, --elevation for cycling); without it the edit is
rejected.

EXAMPLES:

  mapty edit abc12345 --duration 22
  mapty edit abc12345 --type cycling --elevation 120`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		changes := session.FormValues{
			Kind:      editType,
			Distance:  editDistance,
			Duration:  editDuration,
			Cadence:   editCadence,
			Elevation: editElevation,
		}
		w, err := mapty.EditWorkout(args[0], changes)
		if w == nil {
			return fmt.Errorf("failed to edit workout: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Updated %s\n", w.Label())
		terminal.PrintEntry(out, w)
		if err != nil {
			return fmt.Errorf("workout updated but not saved: %w", err)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a workout",
	Long: `Delete a workout by its ID or ID prefix.

The ID prefix is shown next to each workout in 'mapty list'.

EXAMPLES:

  mapty delete abc12345                    # Delete by 8-char prefix
  mapty rm abc1                            # Short prefix (if unique)

CAUTION:

  This permanently deletes the workout. There is no undo.
  If the prefix matches multiple workouts, an error is returned.`,
	Args: cobra.ExactArgs(1),
	Annotations: map[string]string{
		sessionAnnotation: sessionQuiet,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := mapty.DeleteWorkout(args[0])
		if err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}

		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "✗ Deleted %s %s\n",
			w.Description, color.New(color.Faint).Sprint(w.ShortID()))
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editType, "type", "", "workout type: running or cycling")
	editCmd.Flags().StringVarP(&editDistance, "distance", "d", "", "distance in km")
	editCmd.Flags().StringVarP(&editDuration, "duration", "t", "", "duration in minutes")
	editCmd.Flags().StringVarP(&editCadence, "cadence", "c", "", "cadence in steps/min (running)")
	editCmd.Flags().StringVarP(&editElevation, "elevation", "e", "", "elevation gain in m (cycling)")
	editCmd.Annotations = map[string]string{sessionAnnotation: sessionQuiet}

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
}
