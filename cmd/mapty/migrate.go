// ABOUTME: CLI command for moving workouts between storage backends.
// ABOUTME: Copies the workouts slot from one backend to another.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/mapty/internal/config"
	"github.com/harperreed/mapty/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move workouts to another storage backend",
	Long: `Copy your workouts from one storage backend to another.

The destination's workouts are replaced by the source's. Run with
--dry-run first to see what would be copied.

BACKENDS:

  sqlite, badger, charm

USAGE:

  mapty migrate --to badger --dry-run     # Preview
  mapty migrate --to badger               # Copy from the configured backend
  mapty migrate --from charm --to sqlite  # Leave the cloud

AFTER MIGRATION:

  Point mapty at the new backend:
    mapty config set-backend badger`,
	Annotations: map[string]string{
		sessionAnnotation: sessionNone,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		from := migrateFrom
		if from == "" {
			from = cfg.GetBackend()
		}
		if migrateTo == "" {
			return errors.New("--to is required")
		}
		for _, b := range []string{from, migrateTo} {
			if !config.IsValidBackend(b) || b == config.BackendMemory {
				return fmt.Errorf("cannot migrate with backend %q (use sqlite, badger, or charm)", b)
			}
		}
		if from == migrateTo {
			return fmt.Errorf("source and destination are both %s", from)
		}

		out := cmd.OutOrStdout()
		if migrateDryRun {
			color.New(color.FgYellow).Fprintln(out, "Dry run mode - no changes will be made")
			fmt.Fprintln(out)
		}

		src, err := cfg.OpenSlotFor(from)
		if err != nil {
			return fmt.Errorf("open %s: %w", from, err)
		}
		defer func() { _ = src.Close() }()

		var dst storage.Slot = storage.NewMemorySlot()
		if !migrateDryRun {
			dst, err = cfg.OpenSlotFor(migrateTo)
			if err != nil {
				return fmt.Errorf("open %s: %w", migrateTo, err)
			}
		}
		defer func() { _ = dst.Close() }()

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		if migrateDryRun {
			fmt.Fprintf(out, "Would copy %d workouts (%d bytes) from %s to %s\n",
				summary.Workouts, summary.Bytes, from, migrateTo)
			return nil
		}

		color.New(color.FgGreen).Fprintf(out, "✓ Copied %d workouts from %s to %s\n",
			summary.Workouts, from, migrateTo)
		if cfg.GetBackend() != migrateTo {
			fmt.Fprintf(out, "\nSwitch to it with: mapty config set-backend %s\n", migrateTo)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source backend (default: configured backend)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
