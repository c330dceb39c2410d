// Package trace parses the "[wt-trace] ..." lines internal/gitcmd emits
// for every git subprocess invocation and exports them as a Chrome Trace
// Format JSON document, so a slow "list" or "switch" run can be loaded
// directly into chrome://tracing (or Perfetto) to see which git calls
// dominated the wall-clock time.
package trace
