package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gizzahub/gzh-wt/internal/parser"
	"github.com/gizzahub/gzh-wt/pkg/branch"
	"github.com/gizzahub/gzh-wt/pkg/cistatus"
	"github.com/gizzahub/gzh-wt/pkg/collector"
	"github.com/gizzahub/gzh-wt/pkg/config"
	"github.com/gizzahub/gzh-wt/pkg/listmodel"
	"github.com/gizzahub/gzh-wt/pkg/repository"
	"github.com/gizzahub/gzh-wt/pkg/templates"
	"github.com/gizzahub/gzh-wt/pkg/worktree"
)

// urlProbeTimeout bounds the dev-server reachability check; a URL that
// takes longer than this to answer is rendered as inactive.
const urlProbeTimeout = 1500 * time.Millisecond

// listRow pairs a ListItem with the facts known synchronously at spawn
// time: the backing worktree (nil for a branch-only row) and whether its
// path diverges from the template-expected one. These never change during
// the drain, so the renderer reads them without any loaded-flag dance.
type listRow struct {
	item         *listmodel.ListItem
	wt           *branch.Worktree
	pathMismatch bool
}

// buildListRows enumerates one row per materialized worktree plus one per
// local branch with no worktree anywhere. Bare placeholder entries from
// "worktree list" are skipped (there is nothing to show for them).
func buildListRows(cc *cmdContext, proj *config.ProjectConfig) ([]*listRow, error) {
	worktrees, err := cc.repo.ListWorktrees(cc.ctx, cc.worktree)
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}

	var rows []*listRow
	seen := map[string]bool{}
	for _, wt := range worktrees {
		if wt.IsBare {
			continue
		}
		wt := wt
		item := &listmodel.ListItem{
			Kind:   listmodel.KindWorktree,
			Branch: wt.Branch,
			Head:   wt.Ref,
			Path:   wt.Path,
		}
		if wt.Branch != "" {
			seen[wt.Branch] = true
		}
		_, mismatch := worktree.PathMismatch(cc.ctx, cc.exec, cc.repo, wt.Branch, wt.Path, cc.userCfg)
		rows = append(rows, &listRow{item: item, wt: wt, pathMismatch: mismatch})
	}

	localBranches, err := cc.exec.RunLines(cc.ctx, cc.repo.Path, "for-each-ref",
		"--sort=-committerdate", "--format=%(refname:lstrip=2)\t%(objectname)", "refs/heads/")
	if err != nil {
		return rows, nil // worktree rows alone are still a useful listing
	}
	for _, line := range localBranches {
		name, sha, ok := strings.Cut(line, "\t")
		if !ok || seen[name] {
			continue
		}
		rows = append(rows, &listRow{item: &listmodel.ListItem{
			Kind:   listmodel.KindBranchOnly,
			Branch: name,
			Head:   sha,
		}})
	}

	// Phase one of the URL column: the URL itself is knowable right now
	// from the template, so it renders immediately; only the reachability
	// probe goes through the pool.
	if proj != nil && proj.URLTemplate != "" {
		for _, row := range rows {
			if row.item.Branch == "" {
				continue
			}
			url, err := templates.Render(proj.URLTemplate, templates.Vars{
				Repo:     filepath.Base(cc.repo.Path),
				Branch:   row.item.Branch,
				RepoRoot: cc.repo.Path,
				Worktree: row.item.Path,
			})
			if err == nil {
				row.item.URL = url
			}
		}
	}

	return rows, nil
}

// buildListTasks spawns the full per-row task set. Returned alongside is
// the set of task kinds that were never spawned at all, which the layout
// engine uses to hide their columns entirely.
func buildListTasks(cc *cmdContext, rows []*listRow, proj *config.ProjectConfig, defaultBranch string) ([]collector.Task, map[collector.TaskKind]bool) {
	tasks := make([]collector.Task, 0, len(rows)*8)
	spawned := map[collector.TaskKind]bool{}
	add := func(t collector.Task) {
		spawned[t.Kind] = true
		tasks = append(tasks, t)
	}

	var ciOpts cistatus.Options
	urlTemplate := ""
	if proj != nil {
		if proj.CI != nil {
			ciOpts = cistatus.Options{
				PlatformOverride: proj.CI.Platform,
				GitHubToken:      proj.CI.GitHubToken,
				GitLabToken:      proj.CI.GitLabToken,
			}
		}
		urlTemplate = proj.URLTemplate
	}

	for i, row := range rows {
		idx := i
		it := row.item

		// Commands for a worktree row run inside its working tree against
		// HEAD; a branch-only row has no directory of its own, so its
		// commands run at the repo root against the branch ref.
		dir := cc.repo.Path
		ref := it.Branch
		if row.wt != nil {
			dir = row.wt.Path
			ref = "HEAD"
		}

		add(commitDetailsTask(cc, idx, dir, ref))

		onDefault := defaultBranch != "" && it.Branch == defaultBranch
		if defaultBranch != "" && !onDefault && ref != "" {
			add(aheadBehindTask(cc, idx, dir, ref, defaultBranch))
			add(committedTreesMatchTask(cc, idx, dir, ref, defaultBranch))
			add(isAncestorTask(cc, idx, dir, ref, defaultBranch))
			add(hasFileChangesTask(cc, idx, dir, ref, defaultBranch))
			add(wouldMergeAddTask(cc, idx, dir, ref, defaultBranch))
			add(branchDiffTask(cc, idx, dir, ref, defaultBranch))
		}

		if ref != "" {
			add(upstreamTask(cc, idx, dir, ref))
		}
		if it.Branch != "" {
			add(userMarkerTask(cc, idx, dir, it.Branch))
		}

		if row.wt != nil {
			wtRepo := &repository.Repository{Path: row.wt.Path, GitCommonDir: cc.repo.GitCommonDir}
			add(workingTreeDiffTask(cc, idx, wtRepo))
			add(workingTreeConflictsTask(cc, idx, wtRepo))
			add(gitOperationTask(cc, idx, row.wt.Path))
			if defaultBranch != "" && !onDefault && it.Branch != "" {
				add(mergeTreeConflictsTask(cc, idx, row.wt.Path, defaultBranch))
			}
		}

		if !listNoCI && it.Branch != "" {
			add(collector.CIStatusTask(cc.ctx, idx, cc.exec, cc.repo, cistatus.CiBranchName{Name: it.Branch}, it.Head, true, ciOpts))
		}

		if urlTemplate != "" && it.URL != "" {
			add(urlHealthTask(idx, it.URL))
		}
	}

	skipped := map[collector.TaskKind]bool{}
	for k := collector.TaskCommitDetails; k <= collector.TaskURLStatus; k++ {
		if !spawned[k] {
			skipped[k] = true
		}
	}
	return tasks, skipped
}

func commitDetailsTask(cc *cmdContext, idx int, dir, ref string) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskCommitDetails, Run: func() (collector.Value, error) {
		args := []string{"log", "-1", "--format=%an%x00%s%x00%ct"}
		if ref != "" {
			args = append(args, ref)
		}
		out, err := cc.exec.RunOutput(cc.ctx, dir, args...)
		if err != nil {
			return collector.Value{}, err
		}
		parts := strings.SplitN(out, "\x00", 3)
		if len(parts) != 3 {
			return collector.Value{}, fmt.Errorf("unexpected log format: %q", out)
		}
		ts, _ := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
		return collector.Value{Commit: listmodel.CommitDetails{
			Author:    parts[0],
			Subject:   parts[1],
			Timestamp: time.Unix(ts, 0),
		}}, nil
	}}
}

func aheadBehindTask(cc *cmdContext, idx int, dir, ref, defaultBranch string) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskAheadBehind, Run: func() (collector.Value, error) {
		out, err := cc.exec.RunOutput(cc.ctx, dir, "rev-list", "--left-right", "--count", ref+"..."+defaultBranch)
		if err != nil {
			// No merge base at all means an orphan history, which is a
			// normal state worth showing, not a task failure.
			if ok, qerr := cc.exec.RunQuiet(cc.ctx, dir, "merge-base", defaultBranch, ref); qerr == nil && !ok {
				return collector.Value{IsOrphan: true}, nil
			}
			return collector.Value{}, err
		}
		ahead, behind, err := parser.ParseAheadBehind(out)
		if err != nil {
			return collector.Value{}, err
		}
		return collector.Value{Counts: listmodel.AheadBehind{Ahead: uint64(ahead), Behind: uint64(behind)}}, nil
	}}
}

func committedTreesMatchTask(cc *cmdContext, idx int, dir, ref, defaultBranch string) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskCommittedTreesMatch, Run: func() (collector.Value, error) {
		ours, err := cc.exec.RunOutput(cc.ctx, dir, "rev-parse", ref+"^{tree}")
		if err != nil {
			return collector.Value{}, err
		}
		theirs, err := cc.exec.RunOutput(cc.ctx, dir, "rev-parse", defaultBranch+"^{tree}")
		if err != nil {
			return collector.Value{}, err
		}
		return collector.Value{Bool: ours == theirs}, nil
	}}
}

func isAncestorTask(cc *cmdContext, idx int, dir, ref, defaultBranch string) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskIsAncestor, Run: func() (collector.Value, error) {
		ok, err := cc.exec.RunQuiet(cc.ctx, dir, "merge-base", "--is-ancestor", ref, defaultBranch)
		if err != nil {
			return collector.Value{}, err
		}
		return collector.Value{Bool: ok}, nil
	}}
}

func hasFileChangesTask(cc *cmdContext, idx int, dir, ref, defaultBranch string) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskHasFileChanges, Run: func() (collector.Value, error) {
		clean, err := cc.exec.RunQuiet(cc.ctx, dir, "diff", "--quiet", defaultBranch+"..."+ref)
		if err != nil {
			return collector.Value{}, err
		}
		return collector.Value{Bool: !clean}, nil
	}}
}

func wouldMergeAddTask(cc *cmdContext, idx int, dir, ref, defaultBranch string) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskWouldMergeAdd, Run: func() (collector.Value, error) {
		out, err := cc.exec.RunOutput(cc.ctx, dir, "rev-list", "--count", defaultBranch+".."+ref)
		if err != nil {
			return collector.Value{}, err
		}
		n, err := strconv.ParseUint(strings.TrimSpace(out), 10, 64)
		if err != nil {
			return collector.Value{}, fmt.Errorf("unexpected rev-list count: %q", out)
		}
		return collector.Value{Bool: n > 0}, nil
	}}
}

func branchDiffTask(cc *cmdContext, idx int, dir, ref, defaultBranch string) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskBranchDiff, Run: func() (collector.Value, error) {
		out, err := cc.exec.RunOutput(cc.ctx, dir, "diff", "--numstat", defaultBranch+"..."+ref)
		if err != nil {
			return collector.Value{}, err
		}
		return collector.Value{BranchDiff: sumNumstat(out)}, nil
	}}
}

// sumNumstat totals a "git diff --numstat" listing; binary files report
// "-" in both columns and contribute nothing.
func sumNumstat(out string) listmodel.LineDiff {
	var diff listmodel.LineDiff
	for _, line := range parser.SplitLines(out) {
		fields := parser.SplitFields(line)
		if len(fields) < 2 || fields[0] == "-" || fields[1] == "-" {
			continue
		}
		diff.Added += uint64(parser.ParseInt(fields[0]))
		diff.Removed += uint64(parser.ParseInt(fields[1]))
	}
	return diff
}

func upstreamTask(cc *cmdContext, idx int, dir, ref string) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskUpstream, Run: func() (collector.Value, error) {
		upstreamRef := ref + "@{u}"
		if _, err := cc.exec.RunOutput(cc.ctx, dir, "rev-parse", "--abbrev-ref", upstreamRef); err != nil {
			// No tracking ref configured is the normal case for a local
			// topic branch, not a failure.
			return collector.Value{Upstream: listmodel.UpstreamStatus{}}, nil
		}
		out, err := cc.exec.RunOutput(cc.ctx, dir, "rev-list", "--left-right", "--count", ref+"..."+upstreamRef)
		if err != nil {
			return collector.Value{}, err
		}
		ahead, behind, err := parser.ParseAheadBehind(out)
		if err != nil {
			return collector.Value{}, err
		}
		return collector.Value{Upstream: listmodel.UpstreamStatus{
			HasUpstream: true,
			Ahead:       uint64(ahead),
			Behind:      uint64(behind),
		}}, nil
	}}
}

// markerConfigKey is the per-branch git config key holding the user's
// short annotation for the status column's marker position.
func markerConfigKey(branchName string) string {
	return "wt.marker." + strings.ReplaceAll(branchName, "/", "-")
}

func userMarkerTask(cc *cmdContext, idx int, dir, branchName string) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskUserMarker, Run: func() (collector.Value, error) {
		out, err := cc.exec.RunOutput(cc.ctx, dir, "config", "--get", markerConfigKey(branchName))
		if err != nil || strings.TrimSpace(out) == "" {
			return collector.Value{}, nil
		}
		return collector.Value{UserMarker: strings.TrimSpace(out), HasUserMarker: true}, nil
	}}
}

func workingTreeDiffTask(cc *cmdContext, idx int, wtRepo *repository.Repository) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskWorkingTreeDiff, Run: func() (collector.Value, error) {
		status, err := cc.client.GetStatus(cc.ctx, wtRepo)
		if err != nil {
			return collector.Value{}, err
		}
		v := collector.Value{WorkingStatus: listmodel.WorkingTreeStatus{
			Staged:    len(status.StagedFiles) > 0,
			Modified:  len(status.ModifiedFiles) > 0,
			Untracked: len(status.UntrackedFiles) > 0,
			Renamed:   len(status.RenamedFiles) > 0,
			Deleted:   len(status.DeletedFiles) > 0,
		}}
		if out, err := cc.exec.RunOutput(cc.ctx, wtRepo.Path, "diff", "--numstat", "HEAD"); err == nil {
			v.WorkingDiff = sumNumstat(out)
		}
		return v, nil
	}}
}

func workingTreeConflictsTask(cc *cmdContext, idx int, wtRepo *repository.Repository) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskWorkingTreeConflicts, Run: func() (collector.Value, error) {
		status, err := cc.client.GetStatus(cc.ctx, wtRepo)
		if err != nil {
			return collector.Value{}, err
		}
		if len(status.ConflictFiles) > 0 {
			return collector.Value{GitOperation: listmodel.OperationStateConflicts}, nil
		}
		return collector.Value{}, nil
	}}
}

func gitOperationTask(cc *cmdContext, idx int, wtPath string) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskGitOperation, Run: func() (collector.Value, error) {
		if gitPathExists(cc, wtPath, "rebase-merge") || gitPathExists(cc, wtPath, "rebase-apply") {
			return collector.Value{GitOperation: listmodel.OperationStateRebase}, nil
		}
		if gitPathExists(cc, wtPath, "MERGE_HEAD") {
			return collector.Value{GitOperation: listmodel.OperationStateMerge}, nil
		}
		return collector.Value{}, nil
	}}
}

// gitPathExists resolves name through "rev-parse --git-path" so linked
// worktrees (whose operation state lives under the common dir's
// worktrees/<name>/ area, not a local .git/) are checked correctly.
func gitPathExists(cc *cmdContext, wtPath, name string) bool {
	out, err := cc.exec.RunOutput(cc.ctx, wtPath, "rev-parse", "--git-path", name)
	if err != nil {
		return false
	}
	p := strings.TrimSpace(out)
	if !filepath.IsAbs(p) {
		p = filepath.Join(wtPath, p)
	}
	_, err = os.Stat(p)
	return err == nil
}

func mergeTreeConflictsTask(cc *cmdContext, idx int, wtPath, defaultBranch string) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskMergeTreeConflicts, Run: func() (collector.Value, error) {
		result, err := cc.exec.Run(cc.ctx, wtPath, "merge-tree", "--write-tree", defaultBranch, "HEAD")
		if err != nil {
			return collector.Value{}, err
		}
		switch result.ExitCode {
		case 0:
			return collector.Value{Bool: false}, nil
		case 1:
			return collector.Value{Bool: true}, nil
		default:
			// Older git without --write-tree; unknown, default applies.
			return collector.Value{}, fmt.Errorf("merge-tree exited %d", result.ExitCode)
		}
	}}
}

// urlHealthTask is phase two of the URL column: the URL itself was set at
// spawn time, this only reports whether anything answers there so the
// renderer can dim dead links.
func urlHealthTask(idx int, url string) collector.Task {
	return collector.Task{ItemIndex: idx, Kind: collector.TaskURLStatus, Run: func() (collector.Value, error) {
		client := &http.Client{Timeout: urlProbeTimeout}
		resp, err := client.Head(url)
		if err != nil {
			return collector.Value{URLActive: false}, nil
		}
		resp.Body.Close()
		return collector.Value{URLActive: resp.StatusCode < 500}, nil
	}}
}
