// Package collector populates listmodel.ListItem rows in parallel: for
// every visible worktree or branch-only row, a bounded pool of goroutines
// runs the git/CI subprocesses needed for each column and feeds results back
// over a channel, which a single drain loop folds into the rows under a
// fixed overall deadline. A task that is still outstanding when the deadline
// passes gets a conservative, per-task default instead of blocking the whole
// command indefinitely.
package collector
