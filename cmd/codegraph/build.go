package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codegraph-dev/codegraph/internal/pipeline"
	"github.com/codegraph-dev/codegraph/internal/store"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Run a full build, replacing the existing graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(rootDir)
			if err != nil {
				return err
			}

			st, err := store.Open(resolveDBPath(root))
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			p, err := pipeline.New(root, pipeline.Options{
				ExtraIgnoreDirs: extraIgnoreDirs,
				Workers:         workers,
				IncludeExt:      includeExt,
				ExcludeExt:      excludeExt,
			})
			if err != nil {
				return err
			}
			if err := p.FullBuild(st); err != nil {
				return fmt.Errorf("build: %w", err)
			}
			fmt.Println("build complete")
			return nil
		},
	}
}

func defaultDBPath(root string) string {
	return store.FindWorkspaceDB(root)
}
