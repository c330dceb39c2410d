// Package cistatus detects the CI status of a branch's pull/merge request
// (or, failing that, its most recent branch pipeline) by wrapping the gh
// and glab CLIs. Results are cached on disk with a jittered TTL so that
// several concurrent "list" or "statusline" invocations don't each burn an
// API call against the same branch.
package cistatus
