package hooks

import (
	"context"

	"github.com/gizzahub/gzh-wt/pkg/config"
	"github.com/gizzahub/gzh-wt/pkg/templates"
)

// FailurePolicy controls what happens when a hook command exits non-zero.
type FailurePolicy int

const (
	// FailFast stops at the first failing command and returns a
	// HookCommandFailed error.
	FailFast FailurePolicy = iota
	// Warn logs the failure to stderr and keeps running the remaining
	// commands.
	Warn
)

// policyFor returns the failure policy for a hook point: post-start
// and post-merge warn-and-continue, everything else fails fast.
func policyFor(t config.HookType) FailurePolicy {
	switch t {
	case config.HookPostStart, config.HookPostMerge:
		return Warn
	default:
		return FailFast
	}
}

// dispatchDetached reports whether a hook point is fired-and-forgotten
// rather than awaited. Only post-start runs detached; even
// post-merge's Warn policy still waits for every command so its first
// failure's exit code can be propagated.
func dispatchDetached(t config.HookType) bool {
	return t == config.HookPostStart
}

// PendingCommand is one not-yet-approved hook command offered to an
// Approver for a batch decision: Template is the raw, unexpanded command
// string stored in the project config (what gets compared against the
// approved-commands list); Expanded is its template-rendered form (what
// would actually run), shown to the user as a preview.
type PendingCommand struct {
	Name     string
	Template string
	Expanded string
}

// Approver decides whether a batch of not-yet-approved hook commands may
// run, and is responsible for persisting any acceptances (via
// config.ApproveCommand) itself — Run only consults the returned
// decision, it never writes to the approved-commands list directly.
//
// The cobra command layer supplies a huh-based interactive implementation;
// tests and --force callers can supply a stub.
type Approver interface {
	Approve(ctx context.Context, project string, pending []PendingCommand) (map[string]bool, error)
}

// Options configures one hook-point execution.
type Options struct {
	// Project is the project identifier approved commands are stored
	// under (see pkg/config).
	Project string
	// ConfigPath overrides the default user config location; "" uses it.
	ConfigPath string
	// WorkDir is the directory hook commands run in.
	WorkDir string
	// Vars supplies the template context (repo, branch, worktree, ...).
	Vars templates.Vars
	// Force skips both the approval prompt and the persist step, running
	// every command as if already approved (the CLI's --force flag).
	Force bool
	// AutoTrust behaves like Force but is set internally by callers that
	// already ran their own approval batch for a related command set
	// (e.g. "switch --create" approving post-create ahead of running it).
	AutoTrust bool
	// Approver supplies the interactive approval decision when neither
	// Force nor AutoTrust applies and a command isn't already approved.
	// Nil is valid only when every command is already approved.
	Approver Approver
	// UserConfig is the loaded config Run checks approvals against.
	UserConfig *config.UserConfig
}

func (o Options) skipGate() bool {
	return o.Force || o.AutoTrust
}
