// Package templates implements the minimal Jinja-like template language
// used to expand the worktree-path config template and hook command
// templates: "{{ var }}" and "{{ var | filter }}" substitution only, no
// conditionals and no loops. An unknown variable is a hard error reported
// to the user, never silently expanded to empty — the same rule a path or
// shell command template can't afford to violate silently.
package templates
