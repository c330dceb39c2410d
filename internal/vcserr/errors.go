// Package vcserr defines the sentinel and structured error types used
// throughout the worktree orchestrator. Git-specific failures that callers
// need to branch on are modeled as distinct types rather than string
// matching, discriminated with errors.As.
package vcserr

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that don't carry extra data.
var (
	ErrNotFound         = errors.New("not found")
	ErrNotGitRepository = errors.New("not a git repository")
	ErrDirtyWorkingTree = errors.New("working tree has uncommitted changes")
	ErrBranchExists     = errors.New("branch already exists")
	ErrBranchNotFound   = errors.New("branch not found")
	ErrRemoteNotFound   = errors.New("remote not found")
	ErrMergeConflict    = errors.New("merge conflict")
	ErrDetachedHead     = errors.New("repository is in detached HEAD state")
)

// Wrap associates err with target so that Is(Wrap(err, target), target) is
// true, while preserving err's message. A nil err returns target unchanged;
// a nil target returns err unchanged.
func Wrap(err, target error) error {
	if err == nil {
		return target
	}
	if target == nil {
		return err
	}
	return &wrapped{msg: err.Error(), target: target, cause: err}
}

// WrapWithMessage annotates err with msg while keeping err matchable via Is.
func WrapWithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Is reports whether err or any error in its chain matches target, either by
// the standard errors.Is rules or because it was produced by Wrap.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

type wrapped struct {
	msg    string
	target error
	cause  error
}

func (w *wrapped) Error() string   { return w.msg }
func (w *wrapped) Unwrap() error   { return w.cause }
func (w *wrapped) Is(target error) bool {
	return target == w.target
}
