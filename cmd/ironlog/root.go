// ABOUTME: Root Cobra command for the ironlog CLI.
// ABOUTME: Loads config, sets up logging, and opens the store via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/ironlog/internal/config"
	"github.com/harperreed/ironlog/internal/logging"
	"github.com/harperreed/ironlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	repo storage.Repository
	cfg  *config.Config

	flagBackend string
	flagDataDir string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ironlog",
	Short: "Offline-first strength and cardio training log",
	Long: `IronLog is a personal training log for strength, cardio and isometric work.

WHAT IT TRACKS:

  Exercises   a seeded library plus your own custom movements
  Routines    ordered exercise prescriptions (sets x reps @ weight)
  Schedule    which routine runs on each day of the week
  Sets        every set you log, with personal record detection
  Nutrition   daily calories, protein and weight check-ins

QUICK START:

  $ ironlog onboard --name Sam --gender female --born 1992 --height 168 --weight 70 --goal 65
  $ ironlog routine plan strength "Strength A"   # Build a routine from a starter plan
  $ ironlog schedule set mon "Strength A"        # Train it on Mondays
  $ ironlog today                                # What's on for today?
  $ ironlog log "Bench Press" 60 8               # Log a set
  $ ironlog stats                                # Month-to-date summary

MCP INTEGRATION:

  Run 'ironlog mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants. Add to your Claude
  config:

  {
    "mcpServers": {
      "ironlog": { "command": "ironlog", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Data is stored locally in ~/.local/share/ironlog. The default backend is
  SQLite (ironlog.db); set "backend": "badger" in the config file or pass
  --backend badger to use the embedded key-value store instead.

  Config file: ~/.config/ironlog/config.json`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		switch cmd.Name() {
		case "version", "help", "install-skill":
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagBackend != "" {
			cfg.Backend = flagBackend
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}

		level := cfg.GetLogLevel()
		if flagVerbose {
			level = "debug"
		}
		if err := logging.Setup(level); err != nil {
			return err
		}

		// migrate opens both backends itself
		if cmd.Name() == "migrate" {
			return nil
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite or badger (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/ironlog)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}
