// Package gitops shells out to git so every change to the books repo leaves
// a reviewable history.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// CommitPaths stages the given paths (relative to dir) and commits them.
// Returns the short commit hash. Use "." to commit everything.
func CommitPaths(dir, message, authorName, authorEmail string, paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)

	addArgs := append([]string{"add", "--"}, paths...)
	add := exec.Command("git", addArgs...)
	add.Dir = dir
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	commit := exec.Command("git", "commit", "-m", message, "--author", author)
	commit.Dir = dir
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	rev := exec.Command("git", "rev-parse", "--short", "HEAD")
	rev.Dir = dir
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
