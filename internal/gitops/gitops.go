// Package gitops versions the workspace with the git CLI.
package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Init initializes a new git repository at dir. An existing repository is
// left alone.
func Init(ctx context.Context, dir string) error {
	if IsRepo(dir) {
		return nil
	}
	if _, err := run(ctx, dir, "init", "--quiet"); err != nil {
		return err
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Dirty reports whether paths (or the whole tree, when none are given) have
// uncommitted changes.
func Dirty(ctx context.Context, dir string, paths ...string) (bool, error) {
	args := append([]string{"status", "--porcelain", "--"}, paths...)
	out, err := run(ctx, dir, args...)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Commit stages paths (or everything, when none are given) and commits them
// as author ("Name <email>"). It returns the short hash, or "" when there
// was nothing to commit.
func Commit(ctx context.Context, dir, message, author string, paths ...string) (string, error) {
	dirty, err := Dirty(ctx, dir, paths...)
	if err != nil {
		return "", err
	}
	if !dirty {
		return "", nil
	}

	add := []string{"add", "-A", "--"}
	if len(paths) == 0 {
		add = append(add, ".")
	}
	if _, err := run(ctx, dir, append(add, paths...)...); err != nil {
		return "", err
	}

	// Identity flags keep commits working on machines with no git config.
	name, email := splitAuthor(author)
	if _, err := run(ctx, dir,
		"-c", "user.name="+name, "-c", "user.email="+email,
		"commit", "--quiet", "-m", message, "--author", author,
	); err != nil {
		return "", err
	}

	out, err := run(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func splitAuthor(author string) (name, email string) {
	name, rest, ok := strings.Cut(author, "<")
	if !ok {
		return strings.TrimSpace(author), ""
	}
	return strings.TrimSpace(name), strings.TrimSuffix(strings.TrimSpace(rest), ">")
}

func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return string(out), nil
}
