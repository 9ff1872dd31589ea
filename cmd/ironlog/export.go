// ABOUTME: CLI commands for exporting and importing ironlog data.
// ABOUTME: JSON is the restorable backup format; YAML and Markdown are for reading.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/ironlog/internal/backup"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
	exportFile   bool
	importYes    bool
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export training data",
	Long: `Export training data in various formats.

FORMATS:

  json       Full backup of every collection (restorable with 'ironlog import')
  yaml       Human-readable dump with exercise and routine names resolved
  markdown   Training history and nutrition tables for sharing

OPTIONS:

  --output, -o   Write to this file instead of stdout
  --file, -f     Write to the default backup filename (<app>_backup_YYYY-MM-DD.json)
  --since        Only include data since this date (markdown only)

EXAMPLES:

  ironlog export json -f                     # ironlog_backup_2024-03-04.json
  ironlog export json -o backup.json         # Save to a chosen file
  ironlog export yaml                        # Print as YAML
  ironlog export markdown --since 2024-01-01 # History from 2024 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		now := time.Now()
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = backup.ExportJSON(ctx, repo, now)
		case "yaml":
			data, err = backup.ExportYAML(ctx, repo, now)
		case "markdown", "md":
			var since *time.Time
			if exportSince != "" {
				t, perr := time.ParseInLocation("2006-01-02", exportSince, time.Local)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			var md string
			md, err = backup.ExportMarkdown(ctx, repo, since, now)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		output := exportOutput
		if output == "" && exportFile {
			output = backup.Filename(cfg.GetAppName(), now)
		}
		if output != "" {
			if err := os.WriteFile(output, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", output)
			return nil
		}
		fmt.Println(string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore training data from a JSON backup",
	Long: `Restore every collection from a JSON backup made with 'ironlog export json'.

The file is checked before anything is touched. A valid backup REPLACES all
current data (profile, exercises, routines, schedule, nutrition and sets);
you are asked to confirm first. An invalid file leaves your data unchanged.

EXAMPLES:

  ironlog import ironlog_backup_2024-03-04.json
  ironlog import backup.json --yes             # Skip the confirmation`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		ask := func(exportedAt time.Time) bool {
			if importYes {
				return true
			}
			q := fmt.Sprintf("Replace ALL current data with the backup from %s?",
				exportedAt.Format("2006-01-02 15:04"))
			return confirm(os.Stdin, os.Stdout, q)
		}

		env, err := backup.Import(cmd.Context(), repo, data, ask)
		if errors.Is(err, backup.ErrDeclined) {
			color.Yellow("Import cancelled. Nothing was changed.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		fmt.Printf("  %s %d exercises, %d routines, %d sets, %d daily logs\n",
			faint("restored"), len(env.Exercises), len(env.Routines), len(env.Sets), len(env.DailyLogs))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().BoolVarP(&exportFile, "file", "f", false, "write to the default backup filename")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include data since date (YYYY-MM-DD)")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "replace data without asking")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
