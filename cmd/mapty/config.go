// ABOUTME: CLI commands for viewing and changing mapty's config file.
// ABOUTME: Sets the home position the map opens at and the storage backend.
package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/mapty/internal/config"
	"github.com/harperreed/mapty/internal/models"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	Long: `Show or change mapty's settings.

The config file is ~/.config/mapty/config.json. MAPTY_BACKEND,
MAPTY_DATA_DIR, MAPTY_ZOOM_LEVEL, MAPTY_LOG_LEVEL and MAPTY_LOG_FILE override
it for a single run.

COMMANDS:

  show                     Print the effective settings
  set-home <lat> <lng>     Where the map opens
  set-backend <name>       sqlite, badger, charm or memory`,
	Annotations: map[string]string{
		sessionAnnotation: sessionNone,
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)

		home := faint.Sprint("not set")
		if cfg.Home != nil {
			home = cfg.Home.String()
		}
		logFile := cfg.GetLogFile()
		if logFile == "" {
			logFile = faint.Sprint("stderr")
		}

		fmt.Fprintf(out, "Config:   %s\n", config.GetConfigPath())
		fmt.Fprintf(out, "Backend:  %s\n", cfg.GetBackend())
		fmt.Fprintf(out, "Data dir: %s\n", cfg.GetDataDir())
		fmt.Fprintf(out, "Home:     %s\n", home)
		fmt.Fprintf(out, "Zoom:     %d\n", cfg.GetZoomLevel())
		fmt.Fprintf(out, "Log file: %s\n", logFile)
		return nil
	},
}

var configSetHomeCmd = &cobra.Command{
	Use:   "set-home <lat> <lng>",
	Short: "Set where the map opens",
	Long: `Set the position the map opens at.

EXAMPLES:

  mapty config set-home 51.5 -0.1
  mapty config set-home -- -33.87 151.21   # Use -- before a negative latitude`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := parseCoordinate(args[0], 90)
		if err != nil {
			return fmt.Errorf("invalid latitude: %w", err)
		}
		lng, err := parseCoordinate(args[1], 180)
		if err != nil {
			return fmt.Errorf("invalid longitude: %w", err)
		}

		return updateConfig(func(c *config.Config) {
			c.Home = &models.Location{Lat: lat, Lng: lng}
		}, cmd, fmt.Sprintf("Home set to %.5f,%.5f", lat, lng))
	},
}

var configSetBackendCmd = &cobra.Command{
	Use:       "set-backend <name>",
	Short:     "Choose the storage backend",
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.Backends,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToLower(args[0])
		if !config.IsValidBackend(name) {
			return fmt.Errorf("unknown backend: %s (use %s)", name, strings.Join(config.Backends, ", "))
		}
		return updateConfig(func(c *config.Config) {
			c.Backend = name
		}, cmd, "Backend set to "+name)
	},
}

// updateConfig edits the config file as written, so environment overrides
// for this run are not saved.
func updateConfig(change func(*config.Config), cmd *cobra.Command, done string) error {
	fileCfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	change(fileCfg)
	if err := fileCfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s\n", done)
	return nil
}

func parseCoordinate(s string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if err := checkCoordinate(v, limit); err != nil {
		return 0, err
	}
	return v, nil
}

func checkCoordinate(v, limit float64) error {
	if math.IsNaN(v) || v < -limit || v > limit {
		return fmt.Errorf("%v is outside ±%v", v, limit)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetHomeCmd)
	configCmd.AddCommand(configSetBackendCmd)
	rootCmd.AddCommand(configCmd)
}
