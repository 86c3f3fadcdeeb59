// Package gitscan is a thin go-git wrapper giving the CLI a "query diff
// --git HEAD~1"-style convenience: producing a unified diff between a commit and
// its parent without the caller shelling out to git, for feeding into
// package diffscan.
package gitscan

import (
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DiffAgainstParent opens the repository at repoPath and returns the
// unified diff between rev (a commit-ish: a full hash, short hash, or
// "HEAD") and its first parent.
func DiffAgainstParent(repoPath, rev string) ([]byte, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", hash, err)
	}
	if commit.NumParents() == 0 {
		return nil, fmt.Errorf("commit %s has no parent to diff against", commit.Hash)
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("load parent of %s: %w", commit.Hash, err)
	}

	patch, err := parent.Patch(commit)
	if err != nil {
		return nil, fmt.Errorf("compute patch: %w", err)
	}
	return []byte(patch.String()), nil
}
