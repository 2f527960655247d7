// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/mapty/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to record and browse your workouts
through a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "mapty": {
        "command": "mapty",
        "args": ["mcp"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  add_workout       Record a running or cycling workout at a location
  list_workouts     List workouts, newest first
  get_workout       Get one workout by ID or prefix
  edit_workout      Change a workout's values
  delete_workout    Delete a workout
  select_workout    Center the map on a workout
  reset_workouts    Delete every workout

AVAILABLE RESOURCES:

  mapty://workouts  Every stored workout
  mapty://map       Map center, zoom and markers`,
	Annotations: map[string]string{
		sessionAnnotation: sessionQuiet,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(mapty, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(commandContext(cmd))
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case <-sigChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
