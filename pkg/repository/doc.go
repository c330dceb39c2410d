// Package repository provides a handle onto a single Git repository shared
// across all of its worktrees.
//
// A Repository is opened once per command invocation and carries a
// single-initialization cache for values that are expensive to compute and
// identical regardless of which worktree asked for them: the default
// branch, the primary remote, and the project identifier used to track
// hook approvals.
//
// # Resolution rules
//
//   - DefaultBranch tries, in order: the "wt.default-branch" git config,
//     the origin/HEAD symbolic ref, "init.defaultBranch", the sole local
//     branch if there is exactly one, then common names (main, master,
//     trunk, develop).
//   - PrimaryRemote tries "checkout.defaultRemote" first, then the first
//     configured remote with a URL.
//   - ProjectIdentifier parses the primary remote URL into "host/owner/repo"
//     when possible, and otherwise falls back to the repository's canonical
//     filesystem path.
//
// # Usage
//
//	client := repository.NewClient()
//	repo, err := client.Open(ctx, ".")
//	branch, err := repo.DefaultBranch(ctx, exec)
package repository
