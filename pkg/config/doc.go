// Package config loads and persists the user-level and per-project
// configuration for the worktree orchestrator: the worktree-path template,
// commit-generation command, hook definitions, platform overrides, and the
// per-project approved-commands list that gates hook execution.
//
// User config lives in TOML at $XDG_CONFIG_HOME/gzh-wt/config.toml (or the
// OS equivalent); project config lives at <repo>/.gzh-wt.toml. All writes to
// the user config go through a locked read-modify-write cycle so concurrent
// processes never lose an approval.
package config
