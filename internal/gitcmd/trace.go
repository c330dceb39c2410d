package gitcmd

import (
	"bytes"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// DirectiveFileEnvVar is the environment variable a directive-aware parent
// shell sets to point at the file a command writes shell directives
// ("cd '<path>'") into. It must never reach a spawned git hook: a
// compromised or careless hook that execs something could otherwise poison
// the directive file the parent shell is about to source. Defined here
// (rather than in pkg/directive) so Executor can strip it from every child
// process without importing pkg/directive, which would create an import
// cycle (pkg/directive wraps Executor-invoked commands).
const DirectiveFileEnvVar = "GZH_WT_DIRECTIVE_FILE"

// stripDirectiveEnv returns env with every DirectiveFileEnvVar entry
// removed, regardless of case (Windows env vars are case-insensitive).
func stripDirectiveEnv(env []string) []string {
	out := make([]string, 0, len(env))
	prefix := DirectiveFileEnvVar + "="
	for _, kv := range env {
		if strings.HasPrefix(strings.ToUpper(kv), strings.ToUpper(prefix)) {
			continue
		}
		out = append(out, kv)
	}
	return out
}

// goroutineID extracts the calling goroutine's id from its stack trace
// header ("goroutine 123 [running]:"). Best-effort only: Go provides no
// public stable API for this, and its sole use here is a diagnostic tag on
// trace lines, never a correctness dependency.
func goroutineID() int64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}
	buf = buf[len(prefix):]
	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseInt(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// traceResult classifies a finished command for the [wt-trace] line.
type traceResult struct {
	ok  bool
	err string
}

// emitTrace writes one structured "[wt-trace]" event via e.logger, if a
// logger was configured: a zerolog Info event with the fields ts, tid,
// context, cmd, dur (milliseconds), ok and, on failure, err. With
// zerolog's default writer this is one JSON object per line, the form
// pkg/trace parses; it is not a plain key=value text line.
func (e *Executor) emitTrace(context, command string, startUnixMicro int64, tid int64, dur time.Duration, res traceResult) {
	if e.logger == nil {
		return
	}
	ev := e.logger.Info().
		Int64("ts", startUnixMicro).
		Int64("tid", tid).
		Str("context", context).
		Str("cmd", command).
		Dur("dur", dur)
	if res.ok {
		ev = ev.Bool("ok", true)
	} else {
		ev = ev.Bool("ok", false).Str("err", res.err)
	}
	ev.Msg("[wt-trace]")
}
