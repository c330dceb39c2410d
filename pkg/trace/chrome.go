package trace

import "encoding/json"

// chromePID is a fixed synthetic process id: every trace comes from one
// gzh-wt invocation, so there's only ever one "process" worth showing.
const chromePID = 1

// chromeEvent is one Chrome Trace Format "complete" event (ph: "X"), which
// bundles a start timestamp and a duration into a single entry instead of
// needing separate begin/end events.
type chromeEvent struct {
	Name string         `json:"name"`
	Ph   string         `json:"ph"`
	TS   int64          `json:"ts"`
	Dur  float64        `json:"dur"`
	PID  int            `json:"pid"`
	TID  int64          `json:"tid"`
	Args map[string]any `json:"args,omitempty"`
}

// chromeDocument is the top-level Chrome Trace Format object
// (https://docs.google.com/document/d/1CvAClvFfyA5R-PhYUmn5OOQtYMH4h6I0nSsKchNAySU).
type chromeDocument struct {
	TraceEvents []chromeEvent `json:"traceEvents"`
}

// ToChromeTrace renders entries as Chrome Trace Format JSON, loadable
// directly in chrome://tracing or Perfetto.
func ToChromeTrace(entries []*TraceEntry) ([]byte, error) {
	doc := chromeDocument{TraceEvents: make([]chromeEvent, 0, len(entries))}
	for _, e := range entries {
		args := map[string]any{"context": e.Context, "ok": e.OK}
		if !e.OK {
			args["err"] = e.Err
		}
		doc.TraceEvents = append(doc.TraceEvents, chromeEvent{
			Name: e.Command,
			Ph:   "X",
			TS:   e.StartUnixMicro,
			Dur:  e.DurationMs * 1000, // Chrome Trace Format durations are in microseconds
			PID:  chromePID,
			TID:  e.ThreadID,
			Args: args,
		})
	}
	return json.MarshalIndent(doc, "", "  ")
}
