package vcserr

import "fmt"

// RebaseConflict reports that a rebase stopped with conflicts.
type RebaseConflict struct {
	State        string // e.g. "rebase-merge", "rebase-apply"
	TargetBranch string
}

func (e *RebaseConflict) Error() string {
	return fmt.Sprintf("rebase onto %s stopped with conflicts (%s)", e.TargetBranch, e.State)
}

// WorktreePathExists reports that the target path for a new worktree is
// already occupied by something other than a tracked worktree.
type WorktreePathExists struct {
	Path string
}

func (e *WorktreePathExists) Error() string {
	return fmt.Sprintf("path already exists: %s", e.Path)
}

// WorktreePathOccupied reports that the computed path for a branch is
// already the worktree of a different branch.
type WorktreePathOccupied struct {
	Branch   string
	Path     string
	Occupant string
}

func (e *WorktreePathOccupied) Error() string {
	return fmt.Sprintf("path %s for branch %s is occupied by worktree of %s", e.Path, e.Branch, e.Occupant)
}

// StagedChangesWithoutCommits reports that a relocate/merge operation found
// staged changes with nothing committed to carry them.
type StagedChangesWithoutCommits struct {
	Path string
}

func (e *StagedChangesWithoutCommits) Error() string {
	return fmt.Sprintf("%s has staged changes but no commits to carry them", e.Path)
}

// HookCommandFailed reports a non-zero exit from a configured hook command.
type HookCommandFailed struct {
	HookType    string
	CommandName string
	Err         error
	ExitCode    int
}

func (e *HookCommandFailed) Error() string {
	return fmt.Sprintf("%s hook %q failed (exit %d): %v", e.HookType, e.CommandName, e.ExitCode, e.Err)
}

func (e *HookCommandFailed) Unwrap() error { return e.Err }

// PreMergeCommandFailed reports a failure of a pre-merge verification command.
type PreMergeCommandFailed struct {
	CommandName string
	Err         error
}

func (e *PreMergeCommandFailed) Error() string {
	return fmt.Sprintf("pre-merge command %q failed: %v", e.CommandName, e.Err)
}

func (e *PreMergeCommandFailed) Unwrap() error { return e.Err }

// ChildProcessExited reports a non-git child process (e.g. gh, glab) exiting
// with a non-zero status.
type ChildProcessExited struct {
	Message string
	Code    int
}

func (e *ChildProcessExited) Error() string {
	return fmt.Sprintf("%s (exit %d)", e.Message, e.Code)
}

// CommandFailed is a catch-all for a failed shell-out whose output is the
// most useful diagnostic available.
type CommandFailed string

func (e CommandFailed) Error() string { return string(e) }
