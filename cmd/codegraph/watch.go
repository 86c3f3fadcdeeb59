package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codegraph-dev/codegraph/internal/pipeline"
	"github.com/codegraph-dev/codegraph/internal/store"
	"github.com/codegraph-dev/codegraph/internal/watch"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Build, then keep the graph live as files change",
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
			w, err := watch.New(root, p, st, extraIgnoreDirs...)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			if err := w.Start(); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer w.Stop()

			fmt.Println("watching", root)
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig
			return nil
		},
	}
}
