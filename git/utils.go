// Package git answers the few repository questions companion asks about a
// project directory.
package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/companion/command"
)

// HasGitDir reports whether dir itself holds a .git entry (a directory for a
// regular clone, a file for worktrees and submodules).
func HasGitDir(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// IsGitRepo checks if the given directory is inside a git repository
func IsGitRepo(dir string) bool {
	_, err := gitOutput(dir, "rev-parse", "--git-dir")
	return err == nil
}

// GetGitRoot returns the root directory of the git repository
func GetGitRoot(dir string) (string, error) {
	root, err := gitOutput(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("get git root: %w", err)
	}
	return root, nil
}

// CurrentBranch returns the checked out branch, or "HEAD" when detached.
func CurrentBranch(dir string) (string, error) {
	branch, err := gitOutput(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		// A repository without commits has no HEAD to resolve yet.
		if symbolic, symErr := gitOutput(dir, "symbolic-ref", "--short", "HEAD"); symErr == nil {
			return symbolic, nil
		}
		return "", fmt.Errorf("get current branch: %w", err)
	}
	return branch, nil
}

func gitOutput(dir string, args ...string) (string, error) {
	cmd, err := command.NewSafeBuilder().Build(context.Background(), "git", args...)
	if err != nil {
		return "", err
	}
	result, err := cmd.InDir(dir).Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}
