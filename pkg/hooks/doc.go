// Package hooks runs a project's configured post-create, post-start,
// pre-commit, pre-merge, and post-merge commands.
//
// Each command is template-expanded against the current repo/branch/worktree
// context, gated through the user's approved-commands list, and dispatched
// without a shell (no pipes, redirects, or variable expansion — arguments
// are split by ParseCommand, not handed to /bin/sh). Blocking hooks
// (pre-commit, pre-merge, post-merge) run sequentially and stop or continue
// per their failure policy; post-start runs detached.
package hooks
