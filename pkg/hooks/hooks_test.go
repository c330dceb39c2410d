package hooks

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gizzahub/gzh-wt/internal/vcserr"
	"github.com/gizzahub/gzh-wt/pkg/config"
	"github.com/gizzahub/gzh-wt/pkg/templates"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty string", input: "", expected: nil},
		{name: "whitespace only", input: "   ", expected: nil},
		{name: "single word", input: "make", expected: []string{"make"}},
		{name: "multiple words", input: "make build", expected: []string{"make", "build"}},
		{name: "extra whitespace", input: "make   build", expected: []string{"make", "build"}},
		{name: "single quoted arg", input: `echo 'hello world'`, expected: []string{"echo", "hello world"}},
		{name: "double quoted arg", input: `cmd "arg with spaces"`, expected: []string{"cmd", "arg with spaces"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCommand(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseCommand(%q) = %#v, want %#v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		hook config.HookType
		want FailurePolicy
	}{
		{config.HookPostCreate, FailFast},
		{config.HookPreCommit, FailFast},
		{config.HookPreMerge, FailFast},
		{config.HookPostStart, Warn},
		{config.HookPostMerge, Warn},
	}
	for _, tt := range tests {
		if got := policyFor(tt.hook); got != tt.want {
			t.Errorf("policyFor(%s) = %v, want %v", tt.hook, got, tt.want)
		}
	}
}

func TestDispatchDetached(t *testing.T) {
	if !dispatchDetached(config.HookPostStart) {
		t.Error("post-start should dispatch detached")
	}
	if dispatchDetached(config.HookPostMerge) {
		t.Error("post-merge should not dispatch detached (its Warn policy still awaits every command)")
	}
}

// stubApprover approves exactly the command names listed in approve.
type stubApprover struct {
	approve map[string]bool
	calls   int
}

func (s *stubApprover) Approve(_ context.Context, _ string, pending []PendingCommand) (map[string]bool, error) {
	s.calls++
	out := make(map[string]bool, len(pending))
	for _, p := range pending {
		out[p.Name] = s.approve[p.Name]
	}
	return out, nil
}

func baseOpts(t *testing.T, workDir string) Options {
	t.Helper()
	return Options{
		Project:    "example/repo",
		WorkDir:    workDir,
		Vars:       templates.Vars{Repo: "repo", Branch: "feature"},
		UserConfig: &config.UserConfig{Projects: map[string]*config.ProjectEntry{}},
	}
}

func TestRunNoCommandsIsNoop(t *testing.T) {
	err := Run(context.Background(), config.HookPostCreate, config.Hooks{}, baseOpts(t, t.TempDir()))
	if err != nil {
		t.Fatalf("Run() with no configured hooks = %v, want nil", err)
	}
}

func TestRunForceSkipsApprovalAndExecutes(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	hooks := config.Hooks{
		PostCreate: config.HookCommands{{Name: "touch", Command: "touch " + marker}},
	}
	opts := baseOpts(t, dir)
	opts.Force = true
	opts.UserConfig = nil // Force bypasses the config entirely

	if err := Run(context.Background(), config.HookPostCreate, hooks, opts); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("expected marker file to exist after forced hook run: %v", err)
	}
}

func TestRunWithoutApproverFailsClosed(t *testing.T) {
	hooks := config.Hooks{
		PreCommit: config.HookCommands{{Name: "lint", Command: "true"}},
	}
	opts := baseOpts(t, t.TempDir())
	err := Run(context.Background(), config.HookPreCommit, hooks, opts)
	if err == nil {
		t.Fatal("Run() with no approver and an unapproved command should fail")
	}
}

func TestRunConsultsApproverAndRunsAccepted(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	hooks := config.Hooks{
		PreCommit: config.HookCommands{{Name: "touch", Command: "touch " + marker}},
	}
	approver := &stubApprover{approve: map[string]bool{"touch": true}}
	opts := baseOpts(t, dir)
	opts.Approver = approver

	if err := Run(context.Background(), config.HookPreCommit, hooks, opts); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if approver.calls != 1 {
		t.Errorf("approver called %d times, want 1", approver.calls)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("expected marker file after approved hook run: %v", err)
	}
}

func TestRunSkipsDeclinedCommand(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	hooks := config.Hooks{
		PreCommit: config.HookCommands{{Name: "touch", Command: "touch " + marker}},
	}
	approver := &stubApprover{approve: map[string]bool{"touch": false}}
	opts := baseOpts(t, dir)
	opts.Approver = approver

	if err := Run(context.Background(), config.HookPreCommit, hooks, opts); err != nil {
		t.Fatalf("Run() = %v, want nil (declining is not a failure)", err)
	}
	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Errorf("expected declined command not to run, but marker exists")
	}
}

func TestRunAlreadyApprovedSkipsApprover(t *testing.T) {
	dir := t.TempDir()
	hooks := config.Hooks{
		PreCommit: config.HookCommands{{Name: "noop", Command: "true"}},
	}
	opts := baseOpts(t, dir)
	opts.UserConfig.Projects["example/repo"] = &config.ProjectEntry{ApprovedCommands: []string{"true"}}
	approver := &stubApprover{}
	opts.Approver = approver

	if err := Run(context.Background(), config.HookPreCommit, hooks, opts); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}
	if approver.calls != 0 {
		t.Errorf("approver should not be consulted for an already-approved command, got %d calls", approver.calls)
	}
}

func TestRunFailFastStopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "second-ran")
	hooks := config.Hooks{
		PreCommit: config.HookCommands{
			{Name: "fail", Command: "false"},
			{Name: "second", Command: "touch " + marker},
		},
	}
	opts := baseOpts(t, dir)
	opts.Force = true

	err := Run(context.Background(), config.HookPreCommit, hooks, opts)
	if err == nil {
		t.Fatal("Run() should fail when a FailFast hook command exits non-zero")
	}
	var hookErr *vcserr.HookCommandFailed
	if !asHookCommandFailed(err, &hookErr) {
		t.Fatalf("error %v is not a *vcserr.HookCommandFailed", err)
	}
	if hookErr.CommandName != "fail" {
		t.Errorf("CommandName = %q, want %q", hookErr.CommandName, "fail")
	}
	if _, statErr := os.Stat(marker); !os.IsNotExist(statErr) {
		t.Error("second command should not have run after the first failed under FailFast")
	}
}

func TestRunWarnContinuesPastFailure(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "second-ran")
	hooks := config.Hooks{
		PostMerge: config.HookCommands{
			{Name: "fail", Command: "false"},
			{Name: "second", Command: "touch " + marker},
		},
	}
	opts := baseOpts(t, dir)
	opts.Force = true

	err := Run(context.Background(), config.HookPostMerge, hooks, opts)
	if err == nil {
		t.Fatal("Run() should still report the first failure's exit code under Warn")
	}
	if _, statErr := os.Stat(marker); statErr != nil {
		t.Error("second command should have run despite the first failing under Warn policy")
	}
}

func TestExpandUnknownVariableFails(t *testing.T) {
	named := config.HookCommands{{Name: "bad", Command: "echo {{ nope }}"}}
	if _, err := expand(named, templates.Vars{}); err == nil {
		t.Fatal("expand() with an unknown template variable should fail")
	}
}

func asHookCommandFailed(err error, target **vcserr.HookCommandFailed) bool {
	if he, ok := err.(*vcserr.HookCommandFailed); ok {
		*target = he
		return true
	}
	return false
}
