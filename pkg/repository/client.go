package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gizzahub/gzh-wt/internal/gitcmd"
)

// client implements the Client interface.
// It wraps the Git CLI executor and provides high-level repository operations.
type client struct {
	executor *gitcmd.Executor
	logger   Logger
}

// NewClient creates a new repository client with the given options.
//
// Example:
//
//	client := repository.NewClient(
//	    repository.WithClientLogger(myLogger),
//	)
func NewClient(opts ...ClientOption) Client {
	c := &client{
		executor: gitcmd.NewExecutor(),
		logger:   &noopLogger{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ClientOption configures a Client.
type ClientOption func(*client)

// WithClientLogger sets a custom logger for the client.
func WithClientLogger(logger Logger) ClientOption {
	return func(c *client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithExecutor sets a custom Git executor for the client.
// This is primarily useful for testing with a mock executor.
func WithExecutor(executor *gitcmd.Executor) ClientOption {
	return func(c *client) {
		if executor != nil {
			c.executor = executor
		}
	}
}

// Open opens an existing Git repository at the specified path. The path is
// resolved to its absolute form; it does not need to be the repository root
// (any worktree or subdirectory path works, matching "git rev-parse").
func (c *client) Open(ctx context.Context, path string) (*Repository, error) {
	c.logger.Debug("Opening repository at %s", path)

	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("path does not exist: %w", err)
	}

	if !c.executor.IsGitRepository(ctx, absPath) {
		return nil, fmt.Errorf("not a Git repository: %s", absPath)
	}

	commonDir, err := c.executor.RunOutput(ctx, absPath, "rev-parse", "--git-common-dir")
	if err != nil {
		c.logger.Debug("Failed to resolve git common dir: %v", err)
	}

	isBareOutput, err := c.executor.RunOutput(ctx, absPath, "rev-parse", "--is-bare-repository")
	isBare := err == nil && strings.TrimSpace(isBareOutput) == "true"

	toplevel, err := c.executor.RunOutput(ctx, absPath, "rev-parse", "--show-toplevel")
	root := absPath
	if err == nil {
		if trimmed := strings.TrimSpace(toplevel); trimmed != "" {
			root = trimmed
		}
	}

	c.logger.Info("Opened repository at %s", root)

	return &Repository{
		Path:         root,
		GitCommonDir: strings.TrimSpace(commonDir),
		IsBare:       isBare,
	}, nil
}

// IsRepository checks if the specified path is inside a Git working tree.
func (c *client) IsRepository(ctx context.Context, path string) bool {
	if path == "" {
		return false
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		c.logger.Debug("Failed to resolve path: %v", err)
		return false
	}

	return c.executor.IsGitRepository(ctx, absPath)
}

// GetInfo retrieves branch/remote/upstream metadata for repo.
func (c *client) GetInfo(ctx context.Context, repo *Repository) (*Info, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository cannot be nil")
	}

	c.logger.Debug("Getting repository info for %s", repo.Path)

	info := &Info{}

	output, err := c.executor.RunOutput(ctx, repo.Path, "branch", "--show-current")
	if err != nil {
		// Not an error if in detached HEAD state.
		c.logger.Debug("Failed to get current branch: %v", err)
	} else {
		info.Branch = strings.TrimSpace(output)
	}

	remote, err := primaryRemoteFromConfig(ctx, c.executor, repo.Path)
	if err == nil {
		info.Remote = remote.Name
		info.RemoteURL = remote.URL
	} else {
		c.logger.Debug("Failed to resolve primary remote: %v", err)
	}

	output, err = c.executor.RunOutput(ctx, repo.Path, "rev-parse", "--abbrev-ref", "@{upstream}")
	if err != nil {
		c.logger.Debug("Failed to get upstream branch: %v", err)
	} else {
		info.Upstream = strings.TrimSpace(output)
	}

	if info.Upstream != "" {
		output, err = c.executor.RunOutput(ctx, repo.Path, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
		if err != nil {
			c.logger.Debug("Failed to get ahead/behind counts: %v", err)
		} else {
			ahead, behind, err := parseAheadBehind(output)
			if err != nil {
				c.logger.Warn("Failed to parse ahead/behind counts: %v", err)
			} else {
				info.AheadBy = ahead
				info.BehindBy = behind
			}
		}
	}

	// The remaining queries are independent of each other and each writes
	// its own Info field, so they fan out concurrently. Every closure
	// swallows its own failure (a missing describe or stash list is not an
	// error for the whole Info), so Wait never reports one.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := c.executor.RunOutput(gctx, repo.Path, "log", "-1", "--format=%h|%s|%cr|%an")
		if err != nil {
			if out, err := c.executor.RunOutput(gctx, repo.Path, "rev-parse", "--short", "HEAD"); err == nil {
				info.HeadSHA = strings.TrimSpace(out)
			}
			return nil
		}
		parts := strings.Split(strings.TrimSpace(out), "|")
		if len(parts) >= 4 {
			info.HeadSHA = parts[0]
			info.LastCommitMsg = parts[1]
			info.LastCommitDate = parts[2]
			info.LastCommitAuthor = parts[3]
		}
		return nil
	})

	g.Go(func() error {
		if out, err := c.executor.RunOutput(gctx, repo.Path, "describe", "--tags", "--always", "--dirty"); err == nil {
			info.Describe = strings.TrimSpace(out)
		}
		return nil
	})

	g.Go(func() error {
		out, err := c.executor.RunOutput(gctx, repo.Path, "branch", "--list", "--format=%(refname:short)")
		if err != nil {
			return nil
		}
		for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
			if name := strings.TrimSpace(line); name != "" {
				info.LocalBranches = append(info.LocalBranches, name)
			}
		}
		return nil
	})

	g.Go(func() error {
		out, err := c.executor.RunOutput(gctx, repo.Path, "stash", "list")
		if err != nil {
			return nil
		}
		if trimmed := strings.TrimSpace(out); trimmed != "" {
			info.StashCount = len(strings.Split(trimmed, "\n"))
		}
		return nil
	})

	g.Go(func() error {
		if status, err := c.GetStatus(gctx, repo); err == nil {
			info.IsDirty = !status.IsClean
		}
		return nil
	})

	_ = g.Wait()

	c.logger.Info("Retrieved repository info for %s", repo.Path)

	return info, nil
}

// GetStatus retrieves the current working tree status for repo.
func (c *client) GetStatus(ctx context.Context, repo *Repository) (*Status, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository cannot be nil")
	}

	c.logger.Debug("Getting repository status for %s", repo.Path)

	output, err := c.executor.RunOutput(ctx, repo.Path, "status", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("failed to get repository status: %w", err)
	}

	status, err := parseStatus(output)
	if err != nil {
		return nil, fmt.Errorf("failed to parse status output: %w", err)
	}

	c.logger.Info("Retrieved repository status for %s (clean: %v)", repo.Path, status.IsClean)

	return status, nil
}

// parseAheadBehind parses the output of "git rev-list --left-right --count HEAD...@{upstream}".
// Format: "AHEAD\tBEHIND", e.g. "2\t3" means 2 commits ahead, 3 behind.
func parseAheadBehind(output string) (ahead, behind int, err error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return 0, 0, nil
	}

	parts := strings.Split(output, "\t")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid ahead-behind format: %s", output)
	}

	_, _ = fmt.Sscanf(parts[0], "%d", &ahead)  //nolint:errcheck
	_, _ = fmt.Sscanf(parts[1], "%d", &behind) //nolint:errcheck

	return ahead, behind, nil
}

// parseStatus parses the output of "git status --porcelain".
//
// Format: "XY PATH" where X is the index status and Y the worktree status.
// Status codes: ' '=unmodified, M=modified, A=added, D=deleted, R=renamed,
// C=copied, U=updated-but-unmerged, ?=untracked, !=ignored.
func parseStatus(output string) (*Status, error) {
	status := &Status{
		IsClean:        true,
		ModifiedFiles:  []string{},
		StagedFiles:    []string{},
		UntrackedFiles: []string{},
		ConflictFiles:  []string{},
		DeletedFiles:   []string{},
		RenamedFiles:   []RenamedFile{},
	}

	if output == "" {
		return status, nil
	}

	lines := strings.Split(output, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if len(line) < 4 {
			return nil, fmt.Errorf("line %d too short for status format: %q", i, line)
		}

		indexStatus := rune(line[0])
		worktreeStatus := rune(line[1])
		filePath := strings.TrimSpace(line[3:])

		if indexStatus == 'R' || worktreeStatus == 'R' {
			parts := strings.Split(filePath, " -> ")
			if len(parts) == 2 {
				status.RenamedFiles = append(status.RenamedFiles, RenamedFile{
					OldPath: strings.TrimSpace(parts[0]),
					NewPath: strings.TrimSpace(parts[1]),
				})
				status.StagedFiles = append(status.StagedFiles, parts[1])
				status.IsClean = false
				continue
			}
		}

		if err := parseStatusCode(status, indexStatus, worktreeStatus, filePath); err != nil {
			return nil, fmt.Errorf("line %d: %w (content: %q)", i, err, line)
		}
	}

	return status, nil
}

// parseStatusCode interprets the two-character status code.
func parseStatusCode(status *Status, index, worktree rune, path string) error {
	switch index {
	case 'M', 'A', 'R', 'C':
		status.StagedFiles = append(status.StagedFiles, path)
		status.IsClean = false
	case 'D':
		status.StagedFiles = append(status.StagedFiles, path)
		status.DeletedFiles = append(status.DeletedFiles, path)
		status.IsClean = false
	case 'U':
		status.ConflictFiles = append(status.ConflictFiles, path)
		status.IsClean = false
	case '?', '!', ' ':
		// Untracked/ignored files are tracked via the worktree column below;
		// unchanged needs no action.
	default:
		return fmt.Errorf("unknown index status code: %c", index)
	}

	switch worktree {
	case 'M':
		status.ModifiedFiles = append(status.ModifiedFiles, path)
		status.IsClean = false
	case 'D':
		status.DeletedFiles = append(status.DeletedFiles, path)
		status.IsClean = false
	case 'U':
		status.ConflictFiles = append(status.ConflictFiles, path)
		status.IsClean = false
	case '?':
		status.UntrackedFiles = append(status.UntrackedFiles, path)
		status.IsClean = false
	case ' ':
		// No action needed.
	default:
		if worktree != 'A' && worktree != 'R' && worktree != 'C' {
			return fmt.Errorf("unknown worktree status code: %c", worktree)
		}
	}

	return nil
}
