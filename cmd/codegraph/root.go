package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codegraph-dev/codegraph/internal/config"
	"github.com/codegraph-dev/codegraph/internal/logging"
)

var (
	rootDir         string
	dbPath          string
	debug           bool
	extraIgnoreDirs []string
	workers         int
	includeExt      []string
	excludeExt      []string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codegraph",
		Short: "Offline code dependency analyzer",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadProjectConfig(cmd); err != nil {
				return err
			}
			logging.SetDebug(debug)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&rootDir, "root", ".", "workspace root to analyze")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "override the .codegraph/graph.db path")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging")

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newQueryCmd())
	return cmd
}

// loadProjectConfig reads .codegraph.yaml (if present) from the workspace
// root and fills in any flag the user left at its default, so the config
// file acts as a lower-priority source behind explicit CLI flags.
func loadProjectConfig(cmd *cobra.Command) error {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("root") && cfg.Root != "" {
		rootDir = cfg.Root
	}
	if !flags.Changed("db") && cfg.DBPath != "" {
		dbPath = cfg.DBPath
	}
	if !flags.Changed("debug") && cfg.Debug {
		debug = cfg.Debug
	}
	extraIgnoreDirs = cfg.ExtraIgnoreDirs
	workers = cfg.Workers
	includeExt = cfg.IncludeExt
	excludeExt = cfg.ExcludeExt
	return nil
}

// resolveDBPath honors --db when set, else falls back to the
// upward-searching default from package store.
func resolveDBPath(root string) string {
	if dbPath != "" {
		return dbPath
	}
	return defaultDBPath(root)
}
