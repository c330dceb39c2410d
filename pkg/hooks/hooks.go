package hooks

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gizzahub/gzh-wt/internal/vcserr"
	"github.com/gizzahub/gzh-wt/pkg/config"
	"github.com/gizzahub/gzh-wt/pkg/templates"
)

// DefaultTimeout bounds a single hook command's execution.
const DefaultTimeout = 30 * time.Second

// Run executes every command configured for hookType, in the order it was
// declared in the project config. It returns the first FailFast error, or
// (for Warn-policy hooks) the error corresponding to the first failure seen
// after every command has run.
func Run(ctx context.Context, hookType config.HookType, hooks config.Hooks, opts Options) error {
	named := hooks.Get(hookType)
	if len(named) == 0 {
		return nil
	}

	commands, err := expand(named, opts.Vars)
	if err != nil {
		return fmt.Errorf("%s hooks: %w", hookType, err)
	}

	commands, err = gate(ctx, hookType, commands, opts)
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		return nil
	}

	if dispatchDetached(hookType) {
		dispatchAll(commands, opts.WorkDir)
		return nil
	}

	return runSequential(ctx, hookType, commands, opts.WorkDir, policyFor(hookType))
}

// expandedCommand is a hook command after template expansion, still
// carrying its raw template for the approval check.
type expandedCommand struct {
	name     string
	template string
	expanded string
}

func expand(named config.HookCommands, vars templates.Vars) ([]expandedCommand, error) {
	out := make([]expandedCommand, 0, len(named))
	for _, nc := range named {
		rendered, err := templates.Render(nc.Command, vars)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", nc.Name, err)
		}
		out = append(out, expandedCommand{name: nc.Name, template: nc.Command, expanded: rendered})
	}
	return out, nil
}

// gate filters commands down to the ones cleared to run: already approved,
// force/auto-trust exempted, or accepted in this call's approval batch.
// Commands the user declines are dropped with a warning, not treated as a
// hard failure — declining is a valid, intentional choice.
func gate(ctx context.Context, hookType config.HookType, commands []expandedCommand, opts Options) ([]expandedCommand, error) {
	if opts.skipGate() {
		return commands, nil
	}
	if opts.UserConfig == nil {
		return nil, fmt.Errorf("%s hooks: no user config loaded to check command approval", hookType)
	}

	var pending []PendingCommand
	pendingIdx := map[string]int{}
	for i, c := range commands {
		if opts.UserConfig.IsCommandApproved(opts.Project, c.template) {
			continue
		}
		pending = append(pending, PendingCommand{Name: c.name, Template: c.template, Expanded: c.expanded})
		pendingIdx[c.name] = i
	}
	if len(pending) == 0 {
		return commands, nil
	}

	if opts.Approver == nil {
		return nil, fmt.Errorf("%s hook %q requires approval: re-run with --force or approve it interactively", hookType, pending[0].Name)
	}

	decisions, err := opts.Approver.Approve(ctx, opts.Project, pending)
	if err != nil {
		return nil, fmt.Errorf("%s hooks: approval prompt failed: %w", hookType, err)
	}

	declined := map[int]bool{}
	for _, p := range pending {
		if !decisions[p.Name] {
			declined[pendingIdx[p.Name]] = true
			log.Warn().Str("hook", string(hookType)).Str("command", p.Name).Msg("hook command declined, skipping")
		}
	}
	if len(declined) == 0 {
		return commands, nil
	}
	kept := commands[:0:0]
	for i, c := range commands {
		if !declined[i] {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

// runSequential dispatches commands one at a time, blocking on each.
func runSequential(ctx context.Context, hookType config.HookType, commands []expandedCommand, workDir string, policy FailurePolicy) error {
	var firstErr error
	for _, c := range commands {
		exitCode, err := runOne(ctx, c.expanded, workDir)
		if err == nil {
			continue
		}
		hookErr := &vcserr.HookCommandFailed{
			HookType:    string(hookType),
			CommandName: c.name,
			Err:         err,
			ExitCode:    exitCode,
		}
		if policy == FailFast {
			return hookErr
		}
		log.Warn().Str("hook", string(hookType)).Str("command", c.name).Err(hookErr).Msg("hook command failed, continuing")
		if firstErr == nil {
			firstErr = hookErr
		}
	}
	return firstErr
}

// dispatchAll starts every command without waiting for it to finish,
// releasing the child process so it survives this process's exit.
func dispatchAll(commands []expandedCommand, workDir string) {
	for _, c := range commands {
		args := ParseCommand(c.expanded)
		if len(args) == 0 {
			continue
		}
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = workDir
		if err := cmd.Start(); err != nil {
			log.Warn().Str("command", c.name).Err(err).Msg("post-start hook failed to launch")
			continue
		}
		go func(p *exec.Cmd, name string) {
			if err := p.Wait(); err != nil {
				log.Warn().Str("command", name).Err(err).Msg("post-start hook exited with error")
			}
		}(cmd, c.name)
	}
}

// runOne runs a single hook command to completion and returns its exit
// code alongside any error (nil error, 0 code on success).
func runOne(ctx context.Context, expanded, workDir string) (int, error) {
	args := ParseCommand(expanded)
	if len(args) == 0 {
		return 0, nil
	}

	hookCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	cmd := exec.CommandContext(hookCtx, args[0], args[1:]...)
	cmd.Dir = workDir

	output, err := cmd.CombinedOutput()
	if err == nil {
		return 0, nil
	}

	exitCode := -1
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	}
	trimmed := strings.TrimSpace(string(output))
	if trimmed != "" {
		return exitCode, fmt.Errorf("%w (output: %s)", err, trimmed)
	}
	return exitCode, err
}

// ParseCommand splits a hook command string into executable and arguments.
// Supports simple quoting but NOT shell features (pipes, redirects,
// variables) — this is intentional, hooks never reach a shell.
//
// Examples:
//
//	"make build" → ["make", "build"]
//	"echo 'hello world'" → ["echo", "hello world"]
func ParseCommand(cmd string) []string {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return nil
	}

	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, r := range cmd {
		switch {
		case inQuote:
			if r == quoteChar {
				inQuote = false
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			inQuote = true
			quoteChar = r
		case r == ' ' || r == '\t':
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}
