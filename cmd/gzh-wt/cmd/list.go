package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gizzahub/gzh-wt/internal/style"
	"github.com/gizzahub/gzh-wt/internal/termwidth"
	"github.com/gizzahub/gzh-wt/pkg/cliutil"
	"github.com/gizzahub/gzh-wt/pkg/collector"
	"github.com/gizzahub/gzh-wt/pkg/config"
	"github.com/gizzahub/gzh-wt/pkg/layout"
	"github.com/gizzahub/gzh-wt/pkg/listmodel"
)

var (
	listFull   bool
	listFormat string
	listSort   string
	listNoCI   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every worktree's status at a glance",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listFull, "full", false, "reserve every status-symbol position, even ones no row uses")
	listCmd.Flags().StringVar(&listFormat, "format", "text", "output format: text, json, tsv")
	listCmd.Flags().StringVar(&listSort, "sort", "recency", "sort order: recency, project")
	listCmd.Flags().BoolVar(&listNoCI, "no-ci", false, "skip gh/glab CI status lookups")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := cliutil.ValidateFormat(listFormat, cliutil.ListFormats); err != nil {
		return err
	}

	cc, err := openCmdContext("list")
	if err != nil {
		return err
	}

	proj, err := config.LoadProject(cc.repo.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		proj = &config.ProjectConfig{}
	}

	defaultBranch, err := cc.repo.DefaultBranch(cc.ctx, cc.exec)
	if err != nil {
		defaultBranch = ""
	}
	defaultHead := ""
	if defaultBranch != "" {
		if sha, err := cc.exec.RunOutput(cc.ctx, cc.repo.Path, "rev-parse", defaultBranch); err == nil {
			defaultHead = sha
		}
	}

	rows, err := buildListRows(cc, proj)
	if err != nil {
		return err
	}
	items := make([]*listmodel.ListItem, len(rows))
	for i, row := range rows {
		items[i] = row.item
	}

	tasks, skippedTasks := buildListTasks(cc, rows, proj, defaultBranch)

	workers, err := collector.ResolveWorkers(jobsFlag, cc.userCfg.Jobs)
	if err != nil {
		return err
	}

	outcome := collector.RunWithWorkers(cc.ctx, tasks, items, func(i int) string {
		if items[i].Branch != "" {
			return items[i].Branch
		}
		if len(items[i].Head) >= 8 {
			return items[i].Head[:8]
		}
		return items[i].Head
	}, workers)

	var errors []string
	if outcome.TimedOut {
		msg := fmt.Sprintf("timed out waiting on %d item(s): %s",
			len(outcome.ItemsWithMissing), strings.Join(outcome.ItemsWithMissing, ", "))
		errors = append(errors, msg)
		fmt.Fprintln(os.Stderr, "warning: "+msg)
	}

	sortRows(rows, listSort)

	projectID, _ := cc.repo.ProjectIdentifier(cc.ctx, cc.exec)

	switch listFormat {
	case "json":
		return writeJSONRows(cc.repo.Path, projectID, rows, errors)
	case "tsv":
		return writeTSVRows(cc.repo.Path, projectID, rows)
	default:
		return writeTextRows(rows, defaultBranch, defaultHead, listFull, skippedTasks)
	}
}

func sortRows(rows []*listRow, by string) {
	switch by {
	case "project":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].item.Branch < rows[j].item.Branch })
	default: // recency
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].item.Commit.Timestamp.After(rows[j].item.Commit.Timestamp)
		})
	}
}

// jsonWorkingTreeStatus mirrors the machine-readable working_tree_status
// shape: one boolean per change class.
type jsonWorkingTreeStatus struct {
	Staged    bool `json:"staged"`
	Modified  bool `json:"modified"`
	Untracked bool `json:"untracked"`
	Renamed   bool `json:"renamed"`
	Deleted   bool `json:"deleted"`
}

// jsonWorktree is one row of `list --format json`'s "worktrees" array.
type jsonWorktree struct {
	RepoPath          string                `json:"repo_path"`
	Path              string                `json:"path,omitempty"`
	Branch            string                `json:"branch,omitempty"`
	ProjectIdentifier string                `json:"project_identifier"`
	Head              string                `json:"head"`
	Ahead             uint64                `json:"ahead"`
	Behind            uint64                `json:"behind"`
	CIStatus          string                `json:"ci_status,omitempty"`
	URL               string                `json:"url,omitempty"`
	WorkingTreeStatus jsonWorkingTreeStatus `json:"working_tree_status"`
	Subject           string                `json:"subject,omitempty"`
}

// jsonListResult is the top-level `list --format json` document.
type jsonListResult struct {
	SchemaVersion int            `json:"schema_version"`
	Worktrees     []jsonWorktree `json:"worktrees"`
	Errors        []string       `json:"errors"`
}

func jsonRow(repoPath, projectID string, it *listmodel.ListItem) jsonWorktree {
	row := jsonWorktree{
		RepoPath:          repoPath,
		Path:              it.Path,
		Branch:            it.Branch,
		ProjectIdentifier: projectID,
		Head:              it.Head,
		Ahead:             it.Counts.Ahead,
		Behind:            it.Counts.Behind,
		URL:               it.URL,
		WorkingTreeStatus: jsonWorkingTreeStatus{
			Staged:    it.WorkingTree.Status.Staged,
			Modified:  it.WorkingTree.Status.Modified,
			Untracked: it.WorkingTree.Status.Untracked,
			Renamed:   it.WorkingTree.Status.Renamed,
			Deleted:   it.WorkingTree.Status.Deleted,
		},
		Subject: it.Commit.Subject,
	}
	if it.PRStatusLoaded && it.PRStatus != nil {
		row.CIStatus = strings.ToLower(it.PRStatus.CIStatus)
		if row.URL == "" {
			row.URL = it.PRStatus.URL
		}
	}
	return row
}

func writeJSONRows(repoPath, projectID string, rows []*listRow, errors []string) error {
	result := jsonListResult{
		SchemaVersion: 1,
		Worktrees:     make([]jsonWorktree, len(rows)),
		Errors:        []string{},
	}
	result.Errors = append(result.Errors, errors...)
	for i, row := range rows {
		result.Worktrees[i] = jsonRow(repoPath, projectID, row.item)
	}
	return cliutil.WriteJSON(os.Stdout, result, true)
}

// writeTSVRows emits the same fields as the JSON schema, in the same
// declared order, without a header row.
func writeTSVRows(repoPath, projectID string, rows []*listRow) error {
	out := make([][]string, len(rows))
	for i, row := range rows {
		j := jsonRow(repoPath, projectID, row.item)
		out[i] = []string{
			j.RepoPath,
			j.Path,
			j.Branch,
			j.ProjectIdentifier,
			j.Head,
			fmt.Sprintf("%d", j.Ahead),
			fmt.Sprintf("%d", j.Behind),
			j.CIStatus,
			j.URL,
			row.item.WorkingTree.Status.Symbols(),
			j.Subject,
		}
	}
	return cliutil.WriteTSV(os.Stdout, nil, out)
}

// ciBadge renders a short CI status label for the text table.
func ciBadge(it *listmodel.ListItem) string {
	if !it.PRStatusLoaded || it.PRStatus == nil {
		return ""
	}
	return it.PRStatus.CIStatus
}

// rowSymbols assembles the full five-axis status grid for one row: the
// concurrent tasks filled in working tree, operation, and upstream state;
// the main relation and worktree location state are derived here from the
// facts they left behind.
func rowSymbols(row *listRow, defaultBranch, defaultHead string) listmodel.StatusSymbols {
	it := row.item
	var prunable, locked bool
	if row.wt != nil {
		prunable = row.wt.IsPrunable
		locked = row.wt.IsLocked
	}
	return listmodel.StatusSymbols{
		WorkingTree:   it.WorkingTree.Status,
		Operation:     it.WorkingTree.GitOperation,
		Worktree:      listmodel.DeriveWorktreeState(it, row.pathMismatch, prunable, locked),
		Main:          listmodel.DeriveMainState(it, defaultBranch, defaultHead),
		Upstream:      listmodel.DivergenceFromCounts(it.Upstream),
		UserMarker:    it.WorkingTree.UserMarker,
		HasUserMarker: it.WorkingTree.HasUserMarker,
	}
}

// gutterRune marks the row's relation to where the user is sitting: "@"
// for the worktree containing the current directory, "^" for the main
// worktree, "+" for any other worktree, space for branch-only rows.
func gutterRune(row *listRow, cwd string) string {
	if row.wt == nil {
		return " "
	}
	if cwd != "" && (cwd == row.wt.Path || strings.HasPrefix(cwd, row.wt.Path+string(os.PathSeparator))) {
		return "@"
	}
	if row.wt.IsMain {
		return "^"
	}
	return "+"
}

func writeTextRows(rows []*listRow, defaultBranch, defaultHead string, full bool, skippedTasks map[collector.TaskKind]bool) error {
	symbolRows := make([]listmodel.StatusSymbols, len(rows))
	for i, row := range rows {
		symbolRows[i] = rowSymbols(row, defaultBranch, defaultHead)
	}

	mask := listmodel.FullMask
	if !full {
		mask = listmodel.ComputeMask(symbolRows)
	}

	cwd, _ := os.Getwd()

	// Pre-render every cell so column widths can be measured against actual
	// content before layout.Fit decides what survives the terminal width.
	type textRow struct {
		gutter      string
		name        string
		status      string
		workingDiff string
		aheadBehind string
		branchDiff  string
		ci          string
		url         string
		subject     string
	}
	cells := make([]textRow, len(rows))
	widths := map[layout.ColumnKind]int{}
	grow := func(k layout.ColumnKind, s string) {
		if n := len([]rune(s)); n > widths[k] {
			widths[k] = n
		}
	}

	for i, row := range rows {
		it := row.item
		name := it.DisplayName(baseName(it.Path))
		var c textRow
		c.gutter = gutterRune(row, cwd)
		c.name = name
		c.status = symbolRows[i].RenderWithMask(mask)
		if it.IsWorktree() && (it.WorkingTree.Diff.Added > 0 || it.WorkingTree.Diff.Removed > 0) {
			c.workingDiff = fmt.Sprintf("+%d/-%d", it.WorkingTree.Diff.Added, it.WorkingTree.Diff.Removed)
		}
		if it.IsOrphan {
			c.aheadBehind = "orphan"
		} else if it.CountsLoaded && (it.Counts.Ahead > 0 || it.Counts.Behind > 0) {
			c.aheadBehind = fmt.Sprintf("↑%d↓%d", it.Counts.Ahead, it.Counts.Behind)
		}
		if it.BranchDiffLoaded && (it.BranchDiff.Added > 0 || it.BranchDiff.Removed > 0) {
			c.branchDiff = fmt.Sprintf("+%d/-%d", it.BranchDiff.Added, it.BranchDiff.Removed)
		}
		c.ci = ciBadge(it)
		c.url = it.URL
		c.subject = it.Commit.Subject
		cells[i] = c

		grow(layout.ColumnBranch, c.name)
		grow(layout.ColumnWorkingDiff, c.workingDiff)
		grow(layout.ColumnAheadBehind, c.aheadBehind)
		grow(layout.ColumnBranchDiff, c.branchDiff)
		grow(layout.ColumnCiStatus, c.ci)
		grow(layout.ColumnPath, row.item.Path)
		grow(layout.ColumnURL, c.url)
		grow(layout.ColumnMessage, c.subject)
	}
	widths[layout.ColumnGutter] = 1
	// The status grid aligns itself through the mask; its rendered strings
	// carry ANSI styling, so measure the column by the mask's visible
	// width instead of string length.
	widths[layout.ColumnStatus] = mask.TotalWidth()

	columns := layout.AvailableColumns(skippedTasks)
	shown := layout.Fit(columns, widths, termwidth.Get())
	show := map[layout.ColumnKind]bool{}
	for _, c := range shown {
		show[c] = true
	}

	pad := func(s string, k layout.ColumnKind) string {
		if n := widths[k] - len([]rune(s)); n > 0 {
			return s + strings.Repeat(" ", n)
		}
		return s
	}

	for i, row := range rows {
		c := cells[i]
		var parts []string
		if show[layout.ColumnGutter] {
			parts = append(parts, c.gutter)
		}
		if show[layout.ColumnBranch] {
			parts = append(parts, pad(c.name, layout.ColumnBranch))
		}
		if show[layout.ColumnStatus] {
			parts = append(parts, pad(c.status, layout.ColumnStatus))
		}
		if show[layout.ColumnWorkingDiff] {
			parts = append(parts, pad(c.workingDiff, layout.ColumnWorkingDiff))
		}
		if show[layout.ColumnAheadBehind] {
			parts = append(parts, pad(c.aheadBehind, layout.ColumnAheadBehind))
		}
		if show[layout.ColumnCiStatus] {
			parts = append(parts, styledCIBadge(row.item, pad(c.ci, layout.ColumnCiStatus)))
		}
		if show[layout.ColumnBranchDiff] {
			parts = append(parts, pad(c.branchDiff, layout.ColumnBranchDiff))
		}
		if show[layout.ColumnPath] {
			parts = append(parts, style.Dim.Render(pad(row.item.Path, layout.ColumnPath)))
		}
		if show[layout.ColumnURL] {
			parts = append(parts, styledURL(row.item, pad(c.url, layout.ColumnURL)))
		}
		if show[layout.ColumnMessage] {
			parts = append(parts, c.subject)
		}
		fmt.Println(strings.TrimRight(strings.Join(parts, " "), " "))
	}
	return nil
}

// styledCIBadge colors the (already padded) CI label by outcome: green
// passed, blue running, red failed, yellow conflicts or transient error,
// dim no-CI. Padding happens before styling so the ANSI escapes never
// skew the width accounting.
func styledCIBadge(it *listmodel.ListItem, padded string) string {
	if strings.TrimSpace(padded) == "" {
		return padded
	}
	var st = style.Dim
	switch strings.ToLower(ciBadge(it)) {
	case "passed":
		st = style.Success
	case "running":
		st = style.Running
	case "failed":
		st = style.Failure
	case "conflicts", "error":
		st = style.Warning
	}
	return st.Render(padded)
}

// styledURL dims a URL whose health probe came back negative; an
// unprobed URL (phase two still in flight or skipped) renders normally.
func styledURL(it *listmodel.ListItem, padded string) string {
	if it.URLActive != nil && !*it.URLActive {
		return style.Dim.Render(padded)
	}
	return padded
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	if i := strings.LastIndexByte(path, os.PathSeparator); i >= 0 {
		return path[i+1:]
	}
	return path
}
