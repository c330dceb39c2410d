package trace

import (
	"encoding/json"
)

// marker is the message zerolog attaches to every trace event, used to
// distinguish a [wt-trace] line from any other structured log line the
// same logger might emit.
const marker = "[wt-trace]"

// TraceEntry is one parsed [wt-trace] line: one git subprocess invocation.
type TraceEntry struct {
	// StartUnixMicro is the invocation's start time, microseconds since the
	// Unix epoch.
	StartUnixMicro int64
	// ThreadID is the best-effort goroutine id that issued the command.
	ThreadID int64
	// Context names the subsystem driving the command ("list", "switch",
	// "collector", ...).
	Context string
	// Command is the git command line, e.g. "git status --porcelain".
	Command string
	// DurationMs is how long the command took to complete, in milliseconds.
	DurationMs float64
	// OK is true when the command completed without error.
	OK bool
	// Err is the error message when OK is false.
	Err string
}

// rawLine mirrors the JSON fields zerolog writes for an emitTrace call.
type rawLine struct {
	Message string  `json:"message"`
	TS      int64   `json:"ts"`
	TID     int64   `json:"tid"`
	Context string  `json:"context"`
	Cmd     string  `json:"cmd"`
	Dur     float64 `json:"dur"`
	OK      bool    `json:"ok"`
	Err     string  `json:"err"`
}

// ParseLine parses one line of log output. It returns ok=false (with a nil
// entry and nil error) for any line that isn't a [wt-trace] event, so a
// caller can freely feed it a whole mixed log stream line by line.
func ParseLine(line []byte) (entry *TraceEntry, ok bool, err error) {
	var raw rawLine
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, false, nil
	}
	if raw.Message != marker {
		return nil, false, nil
	}
	return &TraceEntry{
		StartUnixMicro: raw.TS,
		ThreadID:       raw.TID,
		Context:        raw.Context,
		Command:        raw.Cmd,
		DurationMs:     raw.Dur,
		OK:             raw.OK,
		Err:            raw.Err,
	}, true, nil
}

// ParseLines parses every [wt-trace] line found in log output, skipping
// lines that aren't trace events or aren't valid JSON at all.
func ParseLines(lines [][]byte) []*TraceEntry {
	entries := make([]*TraceEntry, 0, len(lines))
	for _, line := range lines {
		entry, ok, _ := ParseLine(line)
		if ok {
			entries = append(entries, entry)
		}
	}
	return entries
}
