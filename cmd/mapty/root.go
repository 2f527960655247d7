// ABOUTME: Root Cobra command for mapty CLI.
// ABOUTME: Loads config, builds the logger and runs the session lifecycle via PersistentPre/PostRunE.
package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harperreed/mapty/internal/app"
	"github.com/harperreed/mapty/internal/config"
	"github.com/harperreed/mapty/internal/logging"
	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/terminal"
	"github.com/spf13/cobra"
)

// sessionAnnotation marks how a command uses the workout session.
const sessionAnnotation = "mapty/session"

const (
	// sessionNone commands work on config or storage directly.
	sessionNone = "none"
	// sessionQuiet commands do not need the map, so position alerts are muted.
	sessionQuiet = "quiet"
)

var (
	cfg       *config.Config
	logger    *log.Logger
	logCloser io.Closer
	mapty     *app.App

	flagBackend  string
	flagDataDir  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "mapty",
	Short: "Map your runs and rides",
	Long: `Mapty records running and cycling workouts at places on a map.

Each workout stores its distance, duration and location. Running adds
cadence and gets a pace (min/km); cycling adds elevation gain and gets a
speed (km/h).

QUICK START:

  $ mapty config set-home 51.5 -0.1           # Where your map opens
  $ mapty add running --lat 51.51 --lng -0.12 -d 5 -t 25 -c 178
  $ mapty add cycling --lat 51.49 --lng -0.08 -d 20 -t 60 -e 300
  $ mapty list                                # Newest first
  $ mapty show abc12345                       # Center the map on a workout
  $ mapty map                                 # Every marker

EDITING:

  $ mapty edit abc12345 -t 22                 # Pace is recomputed
  $ mapty delete abc12345
  $ mapty reset                               # Delete everything

STORAGE:

  Workouts are kept in one durable slot. Pick the backend with
  'mapty config set-backend' or MAPTY_BACKEND:

    sqlite   ~/.local/share/mapty/mapty.db (default)
    badger   ~/.local/share/mapty/badger/
    charm    Charm KV, synced across devices ('mapty sync link')
    memory   nothing is kept after the command exits

MCP INTEGRATION:

  Run 'mapty mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "mapty": { "command": "mapty", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cfg)

		logger, logCloser = logging.New(logging.Options{
			Level: cfg.LogLevel,
			File:  cfg.GetLogFile(),
		})

		mode := sessionMode(cmd)
		if mode == sessionNone {
			return nil
		}

		alertOut := cmd.ErrOrStderr()
		if mode == sessionQuiet {
			alertOut = io.Discard
		}
		mapty, err = app.New(app.Options{
			Config:   cfg,
			Logger:   logger,
			Locator:  terminal.StaticLocator{Home: homeFor(cmd)},
			AlertOut: alertOut,
		})
		if err != nil {
			return err
		}
		return mapty.Start(commandContext(cmd))
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if mapty != nil {
			err = mapty.Close()
			mapty = nil
		}
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
		return err
	},
}

func applyFlagOverrides(c *config.Config) {
	if flagBackend != "" {
		c.Backend = flagBackend
	}
	if flagDataDir != "" {
		c.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		c.LogLevel = flagLogLevel
	}
}

// sessionMode reads the session annotation from cmd or its nearest parent.
func sessionMode(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if mode, ok := c.Annotations[sessionAnnotation]; ok {
			return mode
		}
	}
	return ""
}

// homeFor returns the position the session opens at. Without a configured
// home, a command that names a location opens the map there.
func homeFor(cmd *cobra.Command) *models.Location {
	if cfg.Home != nil {
		return cfg.Home
	}
	flags := cmd.Flags()
	if flags.Lookup("lat") == nil || !flags.Changed("lat") || !flags.Changed("lng") {
		return nil
	}
	lat, _ := flags.GetFloat64("lat")
	lng, _ := flags.GetFloat64("lng")
	return &models.Location{Lat: lat, Lng: lng}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite, badger, charm or memory")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/mapty)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
}
