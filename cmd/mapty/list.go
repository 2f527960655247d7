// ABOUTME: CLI commands for viewing workouts: the list, one workout, and the map.
// ABOUTME: List supports filtering by type and limiting results.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/session"
	"github.com/harperreed/mapty/internal/terminal"
	"github.com/spf13/cobra"
)

var (
	listType  string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List workouts",
	Long: `List recorded workouts, newest first.

OUTPUT FORMAT:

  Each line shows: ID  DATE  DESCRIPTION  DETAILS

  The ID is an 8-character prefix you can use with show, edit and delete.

EXAMPLES:

  mapty list                    # Show last 20 workouts
  mapty list --type running     # Only runs
  mapty list -t cycling -n 50   # Last 50 rides`,
	Annotations: map[string]string{
		sessionAnnotation: sessionQuiet,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var kind models.Kind
		if listType != "" {
			k, err := models.ParseKind(listType)
			if err != nil {
				return fmt.Errorf("unknown workout type: %s", listType)
			}
			kind = k
		}

		var workouts []*models.Workout
		for _, w := range mapty.List().Entries() {
			if kind != "" && w.Kind != kind {
				continue
			}
			workouts = append(workouts, w)
			if listLimit > 0 && len(workouts) >= listLimit {
				break
			}
		}

		out := cmd.OutOrStdout()
		if len(workouts) == 0 {
			fmt.Fprintln(out, "No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range workouts {
			fmt.Fprintf(out, "%s %s %s %s\n",
				faint.Sprint(w.ShortID()),
				faint.Sprint(w.CreatedAt.Format("2006-01-02 15:04")),
				padRight(truncate(w.Description, 24), 24),
				terminal.Details(w))
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Center the map on a workout",
	Long: `Show one workout and move the map to its marker.

EXAMPLES:

  mapty show abc12345`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := mapty.SelectWorkout(args[0])
		if err != nil && !errors.Is(err, session.ErrMapNotReady) {
			return err
		}

		out := cmd.OutOrStdout()
		terminal.PrintEntry(out, w)
		faint := color.New(color.Faint)
		fmt.Fprintf(out, "  %s %s\n", faint.Sprint("at"), w.Location)
		if err == nil {
			center, zoom := mapty.Map().Center()
			fmt.Fprintf(out, "  %s %s (zoom %d)\n", faint.Sprint("map centered on"), center, zoom)
		}
		return nil
	},
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Show the map and its markers",
	Long: `Show where the map is centered and every workout marker on it.

The map opens at your home position ('mapty config set-home').`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mapty.Map().Print(cmd.OutOrStdout())
		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "filter by workout type")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(mapCmd)
}
