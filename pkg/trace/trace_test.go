package trace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLineRecognizesTraceEvent(t *testing.T) {
	line, err := json.Marshal(rawLine{
		Message: "[wt-trace]",
		TS:      1700000000000000,
		TID:     7,
		Context: "list",
		Cmd:     "git status --porcelain",
		Dur:     12.5,
		OK:      true,
	})
	require.NoError(t, err)

	entry, ok, err := ParseLine(line)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "list", entry.Context)
	require.Equal(t, "git status --porcelain", entry.Command)
	require.Equal(t, 12.5, entry.DurationMs)
	require.True(t, entry.OK)
}

func TestParseLineIgnoresNonTraceLines(t *testing.T) {
	line, err := json.Marshal(map[string]string{"message": "starting up", "level": "info"})
	require.NoError(t, err)

	entry, ok, err := ParseLine(line)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, entry)
}

func TestParseLineIgnoresInvalidJSON(t *testing.T) {
	entry, ok, err := ParseLine([]byte("not json"))
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, entry)
}

func TestParseLinesSkipsNonTraceLines(t *testing.T) {
	traceLine, _ := json.Marshal(rawLine{Message: marker, Cmd: "git fetch"})
	otherLine, _ := json.Marshal(map[string]string{"message": "noise"})

	entries := ParseLines([][]byte{otherLine, traceLine, []byte("garbage")})

	require.Len(t, entries, 1)
	require.Equal(t, "git fetch", entries[0].Command)
}

func TestToChromeTraceProducesValidDocument(t *testing.T) {
	entries := []*TraceEntry{
		{StartUnixMicro: 1000, ThreadID: 3, Context: "switch", Command: "git worktree add", DurationMs: 5, OK: true},
		{StartUnixMicro: 2000, ThreadID: 3, Context: "switch", Command: "git fetch", DurationMs: 1500, OK: false, Err: "network timeout"},
	}

	out, err := ToChromeTrace(entries)
	require.NoError(t, err)

	var doc chromeDocument
	require.NoError(t, json.Unmarshal(out, &doc))
	require.Len(t, doc.TraceEvents, 2)
	require.Equal(t, "git worktree add", doc.TraceEvents[0].Name)
	require.Equal(t, float64(5000), doc.TraceEvents[0].Dur)
	require.Equal(t, "network timeout", doc.TraceEvents[1].Args["err"])
}
