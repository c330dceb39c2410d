package config

import "regexp"

// deprecatedVarNames maps a variable name used in older releases to the
// canonical name the template engine now resolves. Keeping this table lets
// "gzh-wt config approvals add" matches survive a rename: an approval saved
// against "{{ repo_root }}/setup.sh" still matches the current
// "{{ repo }}/setup.sh" template once both sides are normalized.
var deprecatedVarNames = map[string]string{
	"repo_root": "repo",
	"wt_path":   "worktree",
	"branch_name": "branch",
}

var templateVarPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*(\|[^}]*)?\}\}`)

// NormalizeTemplateVars rewrites every "{{ var }}" or "{{ var | filter }}"
// occurrence in s so that deprecated variable names are replaced with their
// canonical form, leaving any filter pipeline untouched. Used both when
// checking command approval and when migrating a saved template
// string forward.
func NormalizeTemplateVars(s string) string {
	return templateVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		groups := templateVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		name := groups[1]
		filter := ""
		if len(groups) > 2 {
			filter = groups[2]
		}
		if canonical, ok := deprecatedVarNames[name]; ok {
			name = canonical
		}
		if filter != "" {
			return "{{ " + name + " " + filter + " }}"
		}
		return "{{ " + name + " }}"
	})
}
