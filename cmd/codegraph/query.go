package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codegraph-dev/codegraph/internal/diffscan"
	"github.com/codegraph-dev/codegraph/internal/gitscan"
	"github.com/codegraph-dev/codegraph/internal/query"
	"github.com/codegraph-dev/codegraph/internal/store"
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "query", Short: "Answer reverse-reachability questions over the graph"}
	cmd.AddCommand(newQuerySymbolCmd())
	cmd.AddCommand(newQueryFileImpactCmd())
	cmd.AddCommand(newQueryFuncImpactCmd())
	cmd.AddCommand(newQueryModuleMapCmd())
	cmd.AddCommand(newQueryDiffCmd())
	cmd.AddCommand(newQueryOverviewCmd())
	return cmd
}

func newQueryOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Summarize the graph: node and edge counts by kind",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, q, err := openQuerier()
			if err != nil {
				return err
			}
			defer st.Close()

			ov, err := q.BuildOverview()
			if err != nil {
				return err
			}
			fmt.Printf("files: %d\n", ov.FileCount)
			fmt.Println("nodes by kind:")
			for kind, n := range ov.NodesByKind {
				fmt.Printf("  %-12s %d\n", kind, n)
			}
			fmt.Println("edges by kind:")
			for kind, n := range ov.EdgesByKind {
				fmt.Printf("  %-12s %d\n", kind, n)
			}
			return nil
		},
	}
}

func openQuerier() (*store.Store, *query.Querier, error) {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, nil, err
	}
	path := dbPath
	if path == "" {
		path = store.FindWorkspaceDB(root)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return st, query.New(st), nil
}

func newQuerySymbolCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symbol <substring>",
		Short: "Find symbols by substring, with their callers and callees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, q, err := openQuerier()
			if err != nil {
				return err
			}
			defer st.Close()

			matches, err := q.LookupSymbol(args[0])
			if err != nil {
				return err
			}
			for _, m := range matches {
				fmt.Printf("%s (%s) @ %s:%d\n", m.Node.Name, m.Node.Kind, m.Node.File, m.Node.Line)
				for _, c := range m.Callers {
					if len(c.HierarchyPath) > 0 {
						fmt.Printf("  caller (via %v): %s @ %s:%d\n", c.HierarchyPath, c.Node.Name, c.Node.File, c.Node.Line)
					} else {
						fmt.Printf("  caller: %s @ %s:%d\n", c.Node.Name, c.Node.File, c.Node.Line)
					}
				}
				for _, c := range m.Callees {
					fmt.Printf("  callee: %s @ %s:%d\n", c.Name, c.File, c.Line)
				}
			}
			return nil
		},
	}
}

func newQueryFileImpactCmd() *cobra.Command {
	var excludeTests bool
	cmd := &cobra.Command{
		Use:   "file-impact <file>",
		Short: "Find every file that transitively imports the given file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, q, err := openQuerier()
			if err != nil {
				return err
			}
			defer st.Close()

			nodes, err := q.FileImpact(args[0], excludeTests)
			if err != nil {
				return err
			}
			for _, n := range nodes {
				fmt.Printf("level %d: %s\n", n.Level, n.File)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&excludeTests, "exclude-tests", false, "exclude test files from the result")
	return cmd
}

func newQueryFuncImpactCmd() *cobra.Command {
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "func-impact <symbol substring>",
		Short: "Find transitive callers of a function, method, class, or interface",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, q, err := openQuerier()
			if err != nil {
				return err
			}
			defer st.Close()

			matches, err := q.LookupSymbol(args[0])
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Println("no matching symbol")
				return nil
			}
			for _, m := range matches {
				fmt.Printf("impact of %s @ %s:%d\n", m.Node.Name, m.Node.File, m.Node.Line)
				nodes, err := q.FunctionImpact(m.Node.ID, maxDepth)
				if err != nil {
					return err
				}
				for _, n := range nodes {
					fmt.Printf("  level %d: %s @ %s:%d\n", n.Level, n.Name, n.File, n.Line)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum BFS depth (0 = unbounded)")
	return cmd
}

func newQueryModuleMapCmd() *cobra.Command {
	var excludeTests bool
	cmd := &cobra.Command{
		Use:   "module-map",
		Short: "Rank files by inbound edge count",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, q, err := openQuerier()
			if err != nil {
				return err
			}
			defer st.Close()

			ranked, err := q.ModuleMap(excludeTests)
			if err != nil {
				return err
			}
			for _, rf := range ranked {
				fmt.Printf("%6d  %s\n", rf.InboundEdges, rf.File)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&excludeTests, "exclude-tests", true, "exclude test files from the ranking")
	return cmd
}

func newQueryDiffCmd() *cobra.Command {
	var gitRev string
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "diff [unified-diff-file]",
		Short: "Find definitions touched by a diff, and their transitive callers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var diffText []byte
			var err error
			switch {
			case gitRev != "":
				root, absErr := filepath.Abs(rootDir)
				if absErr != nil {
					return absErr
				}
				diffText, err = gitscan.DiffAgainstParent(root, gitRev)
			case len(args) == 1:
				diffText, err = os.ReadFile(args[0])
			default:
				diffText, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return err
			}

			ranges, err := diffscan.Parse(diffText)
			if err != nil {
				return fmt.Errorf("parse diff: %w", err)
			}

			st, q, err := openQuerier()
			if err != nil {
				return err
			}
			defer st.Close()

			nodes, err := q.DiffImpact(ranges, maxDepth)
			if err != nil {
				return err
			}
			for _, n := range nodes {
				fmt.Printf("level %d: %s @ %s:%d\n", n.Level, n.Name, n.File, n.Line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&gitRev, "git", "", "diff this revision against its parent instead of reading a file")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 3, "maximum BFS depth for transitive callers")
	return cmd
}
