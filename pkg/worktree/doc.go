// Package worktree resolves a user-supplied identifier (a branch name, or
// one of the reserved symbols "@", "-", "^") to a Resolved worktree under
// the branch-first policy: a branch checked out in some worktree always
// wins, and the expected path for a branch with no worktree is computed
// from the configured worktree-path template. Any identifier that is not a
// reserved symbol is taken as a branch name; worktree paths are not looked
// up.
package worktree
