package cistatus

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"
)

// runCLI runs a CI CLI tool (gh or glab) with the environment pinned for
// non-interactive batch use: no color, no prompts, no browser-based auth
// flows. Returns combined stdout/exit-success/stderr rather than an error
// for a non-zero exit, since callers need the stderr text to classify the
// failure as retriable or terminal.
func runCLI(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, ok bool, runErr error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = nonInteractiveEnv()

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err != nil {
		if _, isExit := err.(*exec.ExitError); !isExit {
			return nil, nil, false, err
		}
	}
	return outBuf.Bytes(), errBuf.Bytes(), err == nil, nil
}

// nonInteractiveEnv builds the environment for gh/glab invocations: the
// inherited process environment with CLICOLOR_FORCE/GH_FORCE_TTY stripped
// (so a user's interactive-shell settings can't force ANSI/TTY output into
// our JSON parsing) and NO_COLOR/CLICOLOR/GH_PROMPT_DISABLED pinned.
func nonInteractiveEnv() []string {
	base := os.Environ()
	env := make([]string, 0, len(base)+3)
	for _, kv := range base {
		if hasEnvPrefix(kv, "CLICOLOR_FORCE=") || hasEnvPrefix(kv, "GH_FORCE_TTY=") {
			continue
		}
		env = append(env, kv)
	}
	return append(env, "NO_COLOR=1", "CLICOLOR=0", "GH_PROMPT_DISABLED=1")
}

func hasEnvPrefix(kv, prefix string) bool {
	return len(kv) >= len(prefix) && kv[:len(prefix)] == prefix
}

// toolAvailable reports whether name can be executed at all (its --version
// exits zero). Used to skip an entire platform's detection when its CLI
// isn't installed rather than surfacing a confusing exec error per branch.
func toolAvailable(ctx context.Context, name string) bool {
	_, _, ok, err := runCLI(ctx, "", name, "--version")
	return err == nil && ok
}

// parseJSON unmarshals a CLI tool's JSON stdout, logging (not erroring) on
// failure — an unparseable response is treated as "no CI status found"
// rather than surfaced to the user, matching the CLI's own fallback-to-None
// behavior for malformed or unexpected output.
func parseJSON[T any](data []byte, command, branch string) (T, bool) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		log.Debug().Err(err).Str("command", command).Str("branch", branch).Msg("failed to parse CI CLI JSON output")
		return v, false
	}
	return v, true
}
