package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// CommitGeneration holds the `[commit.generation]` section of the user
// config: the external command used to draft commit messages.
type CommitGeneration struct {
	Command string `toml:"command,omitempty"`
}

// Commit holds the `[commit]` section of the user config.
type Commit struct {
	Generation *CommitGeneration `toml:"generation,omitempty"`
}

// ProjectEntry is one `[projects."host/owner/repo"]` table: per-project
// overrides plus the append-only approved-commands list that gates every
// project-defined hook.
type ProjectEntry struct {
	// ApprovedCommands is the ordered, append-only list of hook-command
	// templates (not the substituted command) the user has approved for
	// this project. Order is preserved for deterministic audit.
	ApprovedCommands []string `toml:"approved-commands,omitempty"`

	// WorktreePath overrides the global worktree-path template for this
	// project only.
	WorktreePath string `toml:"worktree-path,omitempty"`

	// Platform forces CI platform detection to "github" or "gitlab"
	// instead of inferring it from the remote URL.
	Platform string `toml:"ci-platform,omitempty"`
}

// IsEmpty reports whether this entry carries no settings at all, so the
// caller can drop the project key entirely rather than leaving an empty
// table behind.
func (p ProjectEntry) IsEmpty() bool {
	return len(p.ApprovedCommands) == 0 && p.WorktreePath == "" && p.Platform == ""
}

// UserConfig is the user-level configuration,
// $XDG_CONFIG_HOME/gzh-wt/config.toml.
type UserConfig struct {
	// WorktreePath is the Jinja-lite template (see pkg/templates) used to
	// compute the filesystem path of a new worktree for a non-default
	// branch.
	WorktreePath string `toml:"worktree-path,omitempty"`

	// SkipShellIntegrationPrompt suppresses the one-time nudge to install
	// the shell wrapper that sources directive files.
	SkipShellIntegrationPrompt bool `toml:"skip-shell-integration-prompt,omitempty"`

	// SkipCommitGenerationPrompt suppresses the one-time nudge to configure
	// [commit.generation].
	SkipCommitGenerationPrompt bool `toml:"skip-commit-generation-prompt,omitempty"`

	// Jobs overrides the worker-pool size used by the status collector;
	// zero means "use the default/env-derived value".
	Jobs int `toml:"jobs,omitempty"`

	Commit *Commit `toml:"commit,omitempty"`

	// Projects is keyed by project identifier ("host/owner/repo" or a
	// filesystem path fallback).
	Projects map[string]*ProjectEntry `toml:"projects,omitempty"`
}

// DefaultWorktreePath is used when the user config doesn't set one.
const DefaultWorktreePath = "../{{ repo | basename }}-worktrees/{{ branch }}"

// defaultUserConfig returns an empty-but-valid UserConfig.
func defaultUserConfig() *UserConfig {
	return &UserConfig{
		WorktreePath: DefaultWorktreePath,
		Projects:     map[string]*ProjectEntry{},
	}
}

// LoadUser loads the user config from its default location. A missing file
// is not an error: it returns a config with defaults applied.
func LoadUser() (*UserConfig, error) {
	path, ok := UserConfigPath()
	if !ok {
		return defaultUserConfig(), nil
	}
	return LoadUserFrom(path)
}

// LoadUserFrom loads the user config from an explicit path (primarily for
// tests). A missing file returns defaults, not an error.
func LoadUserFrom(path string) (*UserConfig, error) {
	cfg := defaultUserConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.WorktreePath == "" {
		cfg.WorktreePath = DefaultWorktreePath
	}
	if cfg.Projects == nil {
		cfg.Projects = map[string]*ProjectEntry{}
	}
	applyLegacyCommitGeneration(cfg, data)
	return cfg, nil
}

// legacyCommitGeneration is the flat, pre-migration shape of the commit
// generation command: a top-level "commit-generation-command" key instead
// of the nested "[commit.generation] command". Per the migration policy
// new writes always use the nested form but
// reads accept both for one release cycle.
type legacyCommitGeneration struct {
	Command string `toml:"commit-generation-command"`
}

func applyLegacyCommitGeneration(cfg *UserConfig, data []byte) {
	if cfg.Commit != nil && cfg.Commit.Generation != nil && cfg.Commit.Generation.Command != "" {
		return
	}
	var legacy legacyCommitGeneration
	if _, err := toml.Decode(string(data), &legacy); err != nil || legacy.Command == "" {
		return
	}
	if cfg.Commit == nil {
		cfg.Commit = &Commit{}
	}
	if cfg.Commit.Generation == nil {
		cfg.Commit.Generation = &CommitGeneration{}
	}
	cfg.Commit.Generation.Command = legacy.Command
}

// Save writes the config to its default location, creating parent
// directories as needed. Callers that need the locked read-modify-write
// cycle should use WithLockedMutation instead of calling Save directly.
func (c *UserConfig) Save() error {
	path, ok := UserConfigPath()
	if !ok {
		return fmt.Errorf("cannot determine config directory: set $HOME or $XDG_CONFIG_HOME")
	}
	return c.SaveTo(path)
}

// SaveTo atomically writes the config to an explicit path: a temp file in
// the same directory followed by a rename, so readers never observe a
// partially written file.
func (c *UserConfig) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.toml.tmp")
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) //nolint:errcheck

	enc := toml.NewEncoder(tmp)
	if err := enc.Encode(sortedCopy(c)); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("encode config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}

// sortedCopy returns c itself, unchanged: ApprovedCommands order must be
// preserved, and BurntSushi/toml already emits map keys sorted, so the
// encoding is deterministic without reordering anything. It exists purely
// as a documented hook point should future fields need stable ordering.
func sortedCopy(c *UserConfig) *UserConfig {
	return c
}

// ProjectNames returns the configured project identifiers, sorted.
func (c *UserConfig) ProjectNames() []string {
	names := make([]string, 0, len(c.Projects))
	for name := range c.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Project returns the entry for a project identifier, or a zero entry if
// none is configured.
func (c *UserConfig) Project(identifier string) ProjectEntry {
	if p := c.Projects[identifier]; p != nil {
		return *p
	}
	return ProjectEntry{}
}

// WorktreePathTemplate returns the effective worktree-path template for a
// project: its own override if set, else the global default.
func (c *UserConfig) WorktreePathTemplate(projectIdentifier string) string {
	if p := c.Projects[projectIdentifier]; p != nil && p.WorktreePath != "" {
		return p.WorktreePath
	}
	if c.WorktreePath != "" {
		return c.WorktreePath
	}
	return DefaultWorktreePath
}
