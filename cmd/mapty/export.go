// ABOUTME: CLI commands for exporting and importing workout data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportType   string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export workout data",
	Long: `Export workout data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Markdown tables (for documentation/sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --type, -t     Filter by workout type (markdown only)
  --since        Only include workouts since this date (YYYY-MM-DD, markdown only)

EXAMPLES:

  mapty export json                         # Export all data as JSON
  mapty export json -o backup.json          # Save to file
  mapty export yaml                         # Export as YAML
  mapty export markdown --type running      # Runs as Markdown
  mapty export markdown --since 2024-01-01  # Workouts from 2024 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	Annotations: map[string]string{
		sessionAnnotation: sessionQuiet,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		workouts := mapty.Session().Workouts()

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(workouts)
		case "yaml":
			data, err = storage.ExportYAML(workouts)
		case "markdown":
			var kind *models.Kind
			if exportType != "" {
				k, err := models.ParseKind(exportType)
				if err != nil {
					return fmt.Errorf("unknown workout type: %s", exportType)
				}
				kind = &k
			}
			var since *time.Time
			if exportSince != "" {
				t, err := time.Parse("2006-01-02", exportSince)
				if err != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			md, err := storage.ExportMarkdown(workouts, kind, since)
			if err != nil {
				return err
			}
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.New(color.FgGreen).Fprintf(out, "✓ Exported %d workouts to %s\n", len(workouts), exportOutput)
		} else {
			fmt.Fprintln(out, string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import workouts from JSON",
	Long: `Import workouts from a JSON backup file made with 'mapty export json'.

Workouts whose ID is already stored are skipped, so importing the same
file twice is harmless.

EXAMPLES:

  mapty import backup.json`,
	Args: cobra.ExactArgs(1),
	Annotations: map[string]string{
		sessionAnnotation: sessionQuiet,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		workouts, err := storage.ImportJSON(data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		added, err := mapty.Import(workouts)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Imported %d of %d workouts from %s\n",
			added, len(workouts), filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVarP(&exportType, "type", "t", "", "filter by workout type (markdown only)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include workouts since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
