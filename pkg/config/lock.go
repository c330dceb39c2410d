package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// WithLockedMutation acquires an exclusive cross-process lock on a sibling
// ".toml.lock" file, reloads the projects section from disk (so this
// process doesn't clobber an approval written by a concurrent process),
// runs mutate, and — only if mutate reports a change — atomically saves the
// result. The lock is released when this function returns.
//
// Pass "" for path to use the default user config location.
func WithLockedMutation(path string, mutate func(*UserConfig) bool) error {
	if path == "" {
		p, ok := UserConfigPath()
		if !ok {
			return fmt.Errorf("cannot determine config directory: set $HOME or $XDG_CONFIG_HOME")
		}
		path = p
	}

	lp := lockPath(path)
	if err := os.MkdirAll(filepath.Dir(lp), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fl := flock.New(lp)
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("acquire config lock: %w", err)
	}
	defer fl.Unlock() //nolint:errcheck

	cfg, err := LoadUserFrom(path)
	if err != nil {
		return err
	}

	if mutate(cfg) {
		return cfg.SaveTo(path)
	}
	return nil
}

// IsCommandApproved reports whether command (after normalizing deprecated
// template variable names to their canonical form) matches an already
// approved template for project, comparing against the same normalized
// form of every stored entry.
func (c *UserConfig) IsCommandApproved(project, command string) bool {
	normalized := NormalizeTemplateVars(command)
	p := c.Projects[project]
	if p == nil {
		return false
	}
	for _, approved := range p.ApprovedCommands {
		if NormalizeTemplateVars(approved) == normalized {
			return true
		}
	}
	return false
}

// ApproveCommand records command as approved for project under a locked
// read-modify-write cycle. No-op (and no disk write) if already approved.
func ApproveCommand(configPath, project, command string) error {
	return WithLockedMutation(configPath, func(cfg *UserConfig) bool {
		if cfg.IsCommandApproved(project, command) {
			return false
		}
		if cfg.Projects == nil {
			cfg.Projects = map[string]*ProjectEntry{}
		}
		entry := cfg.Projects[project]
		if entry == nil {
			entry = &ProjectEntry{}
			cfg.Projects[project] = entry
		}
		entry.ApprovedCommands = append(entry.ApprovedCommands, command)
		return true
	})
}

// RevokeCommand removes command from project's approved list under a
// locked read-modify-write cycle, dropping the project entry entirely if
// nothing else is configured for it.
func RevokeCommand(configPath, project, command string) error {
	return WithLockedMutation(configPath, func(cfg *UserConfig) bool {
		entry := cfg.Projects[project]
		if entry == nil {
			return false
		}
		before := len(entry.ApprovedCommands)
		kept := entry.ApprovedCommands[:0:0]
		for _, c := range entry.ApprovedCommands {
			if c != command {
				kept = append(kept, c)
			}
		}
		entry.ApprovedCommands = kept
		changed := before != len(kept)
		if entry.IsEmpty() {
			delete(cfg.Projects, project)
		}
		return changed
	})
}

// ClearProjectApprovals removes every approved command for project,
// preserving its other settings (worktree-path override, CI platform).
func ClearProjectApprovals(configPath, project string) error {
	return WithLockedMutation(configPath, func(cfg *UserConfig) bool {
		entry := cfg.Projects[project]
		if entry == nil || len(entry.ApprovedCommands) == 0 {
			return false
		}
		entry.ApprovedCommands = nil
		if entry.IsEmpty() {
			delete(cfg.Projects, project)
		}
		return true
	})
}
