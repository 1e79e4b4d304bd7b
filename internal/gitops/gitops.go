// Package gitops keeps a git history of the account data file.
package gitops

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Author identifies who commits are attributed to.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	if out, err := git(dir, Author{}, "init"); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(dir string) bool {
	out, err := git(dir, Author{}, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// HasChanges reports whether path differs from HEAD or is untracked.
func HasChanges(dir, path string) (bool, error) {
	out, err := git(dir, Author{}, "status", "--porcelain", "--", path)
	if err != nil {
		return false, fmt.Errorf("git status: %s: %w", out, err)
	}
	return strings.TrimSpace(out) != "", nil
}

// CommitFiles stages paths and creates a commit. Returns the short commit hash.
func CommitFiles(dir, message string, author Author, paths ...string) (string, error) {
	args := append([]string{"add", "--"}, paths...)
	if out, err := git(dir, author, args...); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	args = append([]string{"commit", "-m", message, "--author", author.String(), "--"}, paths...)
	if out, err := git(dir, author, args...); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	out, err := git(dir, author, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %s: %w", out, err)
	}
	return strings.TrimSpace(out), nil
}

// git runs a git subcommand in dir. The committer identity is taken from
// author when set so commits work without a global git config.
func git(dir string, author Author, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	if author.Name != "" {
		cmd.Env = append(cmd.Env,
			"GIT_COMMITTER_NAME="+author.Name,
			"GIT_COMMITTER_EMAIL="+author.Email,
		)
	}
	out, err := cmd.CombinedOutput()
	return string(out), err
}
