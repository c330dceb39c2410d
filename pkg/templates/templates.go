package templates

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Vars supplies the values a template may reference. Every field is
// resolved by name: "repo", "branch", "main_worktree", "repo_root",
// "worktree", "project". Extra caller-provided variables (used by hook
// templates, which add "branch"/"worktree" plus arbitrary extras) are
// carried in Extra.
type Vars struct {
	Repo         string
	Branch       string
	MainWorktree string
	RepoRoot     string
	Worktree     string
	Project      string
	Extra        map[string]string
}

// lookup resolves a variable name to its string value, reporting whether
// the name is known at all (as opposed to known-but-empty).
func (v Vars) lookup(name string) (string, bool) {
	switch name {
	case "repo":
		return v.Repo, true
	case "branch":
		return sanitizeBranchForPath(v.Branch), true
	case "main_worktree":
		return v.MainWorktree, true
	case "repo_root":
		return v.RepoRoot, true
	case "worktree":
		return v.Worktree, true
	case "project":
		return v.Project, true
	}
	if val, ok := v.Extra[name]; ok {
		return val, true
	}
	return "", false
}

// sanitizeBranchForPath replaces "/" with "-" so a branch name like
// "feature/foo" becomes a single path segment "feature-foo" instead of
// nested directories.
func sanitizeBranchForPath(branch string) string {
	return strings.ReplaceAll(branch, "/", "-")
}

// Filter is a named post-processing function applicable to a variable with
// the "{{ var | filter }}" syntax.
type Filter func(string) string

var filters = map[string]Filter{
	"shell_quote": shellQuote,
	"path":        filepath.Clean,
	"basename":    filepath.Base,
	"dirname":     filepath.Dir,
}

// shellQuote wraps a value in single quotes, escaping any embedded single
// quote with the standard POSIX '\'' sequence — the same escape used by
// the directive protocol (pkg/directive).
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

var exprPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?:\|\s*([A-Za-z_][A-Za-z0-9_]*)\s*)?\}\}`)

// Render expands every "{{ var }}" / "{{ var | filter }}" occurrence in
// tmpl. Returns an error naming the offending variable or filter if either
// is unknown — this template language has no concept of an empty default.
func Render(tmpl string, vars Vars) (string, error) {
	var renderErr error
	result := exprPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		if renderErr != nil {
			return match
		}
		groups := exprPattern.FindStringSubmatch(match)
		name, filterName := groups[1], groups[2]

		value, known := vars.lookup(name)
		if !known {
			renderErr = fmt.Errorf("unknown template variable %q", name)
			return match
		}

		if filterName != "" {
			fn, ok := filters[filterName]
			if !ok {
				renderErr = fmt.Errorf("unknown template filter %q", filterName)
				return match
			}
			value = fn(value)
		}
		return value
	})
	if renderErr != nil {
		return "", renderErr
	}
	return result, nil
}
