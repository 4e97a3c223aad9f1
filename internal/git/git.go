package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Client shells out to the git binary. tack works without git; it only
// uses it to pick a project root and a default assignee.
type Client struct {
	dir string
}

// NewClient creates a git client that runs commands in dir ("" = cwd).
func NewClient(dir string) *Client {
	return &Client{dir: dir}
}

func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// UserName returns the configured git user.name.
func (c *Client) UserName(ctx context.Context) (string, error) {
	name, err := c.output(ctx, "config", "user.name")
	if err != nil {
		return "", fmt.Errorf("failed to get git user.name: %w", err)
	}
	return name, nil
}

// RepoRoot returns the enclosing repository's top-level directory.
func (c *Client) RepoRoot(ctx context.Context) (string, error) {
	root, err := c.output(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not in a git repository")
	}
	return root, nil
}
