// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/ironlog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to read and log your training through a
standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "ironlog": {
        "command": "ironlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  get_profile, onboard              Profile and daily targets
  list_exercises, add_exercise      Exercise library (plus update/delete)
  list_routines, create_routine     Routines (plus from_plan/delete)
  get_schedule, assign_routine      Weekly schedule
  log_set, list_sets, delete_set    Set logging with personal records
  log_nutrition, check_in_weight    Daily intake and weight
  today, recalibrate                Active routine, progress, missed days
  stats, history, last_set          Metrics and history
  export_backup, import_backup      JSON backup and restore

AVAILABLE RESOURCES:

  ironlog://today     Today's routine, progress and nutrition
  ironlog://week      Routine for each day of the week
  ironlog://summary   Month-to-date dashboard`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, cfg.GetAppName())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
