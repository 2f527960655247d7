// ABOUTME: CLI commands for Charm-based sync of the workouts slot.
// ABOUTME: Supports link, unlink, status, pull, repair, reset, and wipe operations.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harperreed/mapty/internal/charm"
	"github.com/harperreed/mapty/internal/storage"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync workouts across devices",
	Long: `Sync workouts across devices using Charm Cloud.

Sync works when the storage backend is charm:

  mapty config set-backend charm

Your data is E2E encrypted with your SSH key before upload.

GETTING STARTED:

  1. Link your device (creates/uses SSH key automatically):
     mapty sync link

  2. On other devices, link with the same Charm account:
     mapty sync link

  3. Check sync status:
     mapty sync status

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and account info
  pull        Fetch the latest workouts from the cloud now
  repair      Repair database corruption (checkpoints WAL, removes SHM, vacuums)
  reset       Reset local data and restore from cloud (destructive)
  wipe        Delete cloud and local data (destructive)

Data syncs automatically after each add, edit and delete.`,
	Annotations: map[string]string{
		sessionAnnotation: sessionNone,
	},
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Long: `Link this device to your Charm account.

If you don't have a Charm account, one will be created using your SSH key.
If you already have an account, you'll be prompted to link via charm.sh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm(cmd, "link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintln(out, "\n✓ Device linked to Charm")
		fmt.Fprintln(out, "Your workouts will now sync automatically across devices.")

		client, err := charm.InitClient()
		if err != nil {
			return nil
		}
		if err := client.Sync(); err != nil {
			color.New(color.FgYellow).Fprintf(out, "⚠ Initial sync failed: %v\n", err)
		} else {
			color.New(color.FgGreen).Fprintln(out, "✓ Initial sync complete")
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local workouts.
You can link again later with 'mapty sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm(cmd, "unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintln(out, "✓ Device unlinked from Charm")
		fmt.Fprintln(out, "Your local workouts are preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	Long: `Show current sync status including:
- Charm account info
- Connection status
- Number of synced workouts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		notLinked := func() error {
			color.New(color.FgYellow).Fprintln(out, "Not linked to Charm")
			fmt.Fprintln(out, "\nRun 'mapty sync link' to connect to Charm.")
			return nil
		}

		client, err := charm.InitClient()
		if err != nil {
			return notLinked()
		}
		id, err := client.ID()
		if err != nil {
			return notLinked()
		}

		fmt.Fprintln(out, "Charm ID:", id)
		fmt.Fprintln(out, "Server:", charm.Host())
		fmt.Fprintln(out, "Backend:", cfg.GetBackend())
		fmt.Fprintln(out)

		workouts := storage.NewPersistence(client, logger).Load()

		color.New(color.FgGreen).Fprintln(out, "✓ Connected to Charm")
		fmt.Fprintf(out, "  Workouts: %d\n", workouts.Len())
		if client.IsReadOnly() {
			color.New(color.FgYellow).Fprintln(out, "  Read-only: another mapty process holds the database")
		}
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch the latest workouts from the cloud",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.InitClient()
		if err != nil {
			return fmt.Errorf("failed to open charm: %w", err)
		}
		if err := client.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		workouts := storage.NewPersistence(client, logger).Load()
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Synced, %d workouts\n", workouts.Len())
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all cloud and local data",
	Long: `Delete all cloud backups and local data.

This is a DESTRUCTIVE operation. ALL data will be permanently deleted.
Use this to:
- Completely remove all workouts from Charm
- Start completely fresh`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "This will PERMANENTLY DELETE all cloud backups and local workout data.")
		if !confirm(cmd, "Type 'wipe' to confirm: ", "wipe") {
			fmt.Fprintln(out, "Canceled.")
			return nil
		}

		result, err := kv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		color.New(color.FgGreen).Fprintln(out, "✓ Data wiped successfully")
		fmt.Fprintf(out, "  Cloud backups deleted: %d\n", result.CloudBackupsDeleted)
		fmt.Fprintf(out, "  Local files deleted: %d\n", result.LocalFilesDeleted)
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair database corruption",
	Long: `Repair database corruption by checkpointing WAL, removing SHM files, checking integrity, and vacuuming.

Use this when you encounter database lock errors or corruption.
Run with --force to attempt recovery even if integrity checks fail.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		out := cmd.OutOrStdout()
		green := color.New(color.FgGreen)

		fmt.Fprintln(out, "Repairing mapty database...")
		result, err := kv.Repair(charm.DBName, force)

		if result.WalCheckpointed {
			green.Fprintln(out, "  ✓ WAL checkpointed")
		}
		if result.ShmRemoved {
			green.Fprintln(out, "  ✓ SHM file removed")
		}
		if result.IntegrityOK {
			green.Fprintln(out, "  ✓ Integrity check passed")
		} else {
			color.New(color.FgRed).Fprintln(out, "  ✗ Integrity check failed")
		}
		if result.Vacuumed {
			green.Fprintln(out, "  ✓ Database vacuumed")
		}

		if err != nil {
			if !force {
				color.New(color.FgYellow).Fprintln(out, "\nRun with --force to attempt recovery.")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		green.Fprintln(out, "\n✓ Repair complete")
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local data and restore from cloud",
	Long: `Delete all local data and restore from Charm Cloud.

This is a destructive operation. All local data will be lost and restored from cloud.
Use this to:
- Fix sync conflicts
- Reset a device to cloud state
- Start fresh on a device`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "This will DELETE all local workout data and restore from cloud.")
		if !confirm(cmd, "Continue? [y/N]: ", "y", "Y") {
			fmt.Fprintln(out, "Canceled.")
			return nil
		}

		if err := kv.Reset(charm.DBName); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		color.New(color.FgGreen).Fprintln(out, "✓ Local data reset and restored from cloud")
		return nil
	},
}

func runCharm(cmd *cobra.Command, arg string) error {
	charmCmd := exec.Command("charm", arg)
	charmCmd.Stdin = os.Stdin
	charmCmd.Stdout = cmd.OutOrStdout()
	charmCmd.Stderr = cmd.ErrOrStderr()
	return charmCmd.Run()
}

// confirm prints prompt and reports whether the typed answer is one of accepted.
func confirm(cmd *cobra.Command, prompt string, accepted ...string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false
	}
	answer := strings.TrimSpace(line)
	for _, a := range accepted {
		if answer == a {
			return true
		}
	}
	return false
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	syncRepairCmd.Flags().Bool("force", false, "Attempt recovery even if integrity checks fail")

	rootCmd.AddCommand(syncCmd)
}
