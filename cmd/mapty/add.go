// ABOUTME: CLI command for recording a workout at a map location.
// ABOUTME: Flags fill the workout form; the session validates and saves it.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/session"
	"github.com/harperreed/mapty/internal/terminal"
	"github.com/spf13/cobra"
)

var (
	addLat       float64
	addLng       float64
	addDistance  string
	addDuration  string
	addCadence   string
	addElevation string
)

var addCmd = &cobra.Command{
	Use:   "add <running|cycling>",
	Short: "Record a workout at a location",
	Long: `Record a running or cycling workout at a point on the map.

FIELDS:

  --lat, --lng        Where the workout happened (required)
  --distance, -d      Distance in km, positive
  --duration, -t      Duration in minutes, positive
  --cadence, -c       Steps per minute, positive (running)
  --elevation, -e     Elevation gain in metres, zero or more (cycling)

Running gets a pace (min/km), cycling gets a speed (km/h). The description
is set from the type and today's date, e.g. "Running on April 14".

EXAMPLES:

  mapty add running --lat 51.51 --lng -0.12 -d 5 -t 25 -c 178
  mapty add cycling --lat 51.49 --lng -0.08 -d 20 -t 60 -e 300
  mapty add cycling --lat 51.49 --lng -0.08 -d 12 -t 30 -e 0`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"running", "cycling"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := models.ParseKind(args[0])
		if err != nil {
			return fmt.Errorf("%w (use running or cycling)", err)
		}
		if err := checkCoordinate(addLat, 90); err != nil {
			return fmt.Errorf("invalid --lat: %w", err)
		}
		if err := checkCoordinate(addLng, 180); err != nil {
			return fmt.Errorf("invalid --lng: %w", err)
		}

		values := session.FormValues{
			Kind:     string(kind),
			Distance: addDistance,
			Duration: addDuration,
		}
		if kind == models.KindRunning {
			values.Cadence = addCadence
		} else {
			values.Elevation = addElevation
		}

		w, err := mapty.AddWorkout(models.Location{Lat: addLat, Lng: addLng}, values)
		if errors.Is(err, session.ErrMapNotReady) {
			return fmt.Errorf("%w: set a home with 'mapty config set-home <lat> <lng>'", err)
		}
		if err != nil && w == nil {
			return fmt.Errorf("failed to add workout: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Added %s\n", w.Label())
		terminal.PrintEntry(out, w)
		if err != nil {
			return fmt.Errorf("workout added but not saved: %w", err)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().Float64Var(&addLat, "lat", 0, "latitude")
	addCmd.Flags().Float64Var(&addLng, "lng", 0, "longitude")
	addCmd.Flags().StringVarP(&addDistance, "distance", "d", "", "distance in km")
	addCmd.Flags().StringVarP(&addDuration, "duration", "t", "", "duration in minutes")
	addCmd.Flags().StringVarP(&addCadence, "cadence", "c", "", "cadence in steps/min (running)")
	addCmd.Flags().StringVarP(&addElevation, "elevation", "e", "", "elevation gain in m (cycling)")
	_ = addCmd.MarkFlagRequired("lat")
	_ = addCmd.MarkFlagRequired("lng")
	rootCmd.AddCommand(addCmd)
}
