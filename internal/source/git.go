package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

var originRepoRE = regexp.MustCompile(`[:/](?P<owner>[^/]+)/(?P<repo>[^/]+?)(?:\.git)?$`)

// Cloner fetches a remote repository into a local directory using a
// shallow clone. An existing target directory is reused as is.
type Cloner struct {
	RepoURL   string
	TargetDir string
}

// Clone ensures the repository is present locally and returns the
// checkout path. A failure here is fatal to the pipeline: without a
// source tree there is nothing to analyze.
func (c *Cloner) Clone(ctx context.Context) (string, error) {
	if c.RepoURL == "" || c.TargetDir == "" {
		return "", fmt.Errorf("repo URL and target dir are required")
	}

	if _, err := os.Stat(c.TargetDir); err == nil {
		return c.TargetDir, nil
	}

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", "--no-single-branch", c.RepoURL, c.TargetDir)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git clone %s: %w: %s", c.RepoURL, err, strings.TrimSpace(stderr.String()))
	}
	return c.TargetDir, nil
}

// InferRepoName derives an "owner/repo" name from the checkout's
// origin remote, falling back to the directory base name.
func InferRepoName(repoRoot string) string {
	cmd := exec.Command("git", "-C", repoRoot, "remote", "get-url", "origin")
	out, err := cmd.Output()
	if err != nil {
		return filepath.Base(repoRoot)
	}
	m := originRepoRE.FindStringSubmatch(strings.TrimSpace(string(out)))
	if len(m) == 0 {
		return filepath.Base(repoRoot)
	}
	return m[1] + "/" + m[2]
}

// IsRemote reports whether target looks like a git URL rather than a
// local path.
func IsRemote(target string) bool {
	return strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "git@") ||
		strings.HasPrefix(target, "ssh://")
}
