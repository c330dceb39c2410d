package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gizzahub/gzh-wt/pkg/listmodel"
)

var statuslineClaudeCode bool

var statuslineCmd = &cobra.Command{
	Use:   "statusline",
	Short: "Render a one-line status summary for a shell prompt or editor",
	RunE:  runStatusline,
}

func init() {
	statuslineCmd.Flags().BoolVar(&statuslineClaudeCode, "claude-code", false, "render for the Claude Code statusline protocol (reads JSON context from stdin)")
}

func runStatusline(cmd *cobra.Command, args []string) error {
	if statuslineClaudeCode {
		// The editor pipes a JSON context document on stdin; the only field
		// we need is the workspace directory, so the status reflects the
		// worktree the editor is in rather than wherever the shell happens
		// to sit.
		var payload struct {
			Workspace struct {
				CurrentDir string `json:"current_dir"`
			} `json:"workspace"`
		}
		if err := json.NewDecoder(os.Stdin).Decode(&payload); err == nil && payload.Workspace.CurrentDir != "" {
			if err := os.Chdir(payload.Workspace.CurrentDir); err != nil {
				return fmt.Errorf("statusline workspace dir: %w", err)
			}
		}
	}

	cc, err := openCmdContext("statusline")
	if err != nil {
		return err
	}

	info, err := cc.client.GetInfo(cc.ctx, cc.repo)
	if err != nil {
		return err
	}
	status, err := cc.client.GetStatus(cc.ctx, cc.repo)
	if err != nil {
		return err
	}

	symbols := listmodel.StatusSymbols{
		WorkingTree: listmodel.WorkingTreeStatus{
			Staged:    len(status.StagedFiles) > 0,
			Modified:  len(status.ModifiedFiles) > 0,
			Untracked: len(status.UntrackedFiles) > 0,
			Renamed:   len(status.RenamedFiles) > 0,
			Deleted:   len(status.DeletedFiles) > 0,
		},
		Upstream: listmodel.DivergenceFromCounts(listmodel.UpstreamStatus{
			HasUpstream: info.Upstream != "",
			Ahead:       uint64(max(info.AheadBy, 0)),
			Behind:      uint64(max(info.BehindBy, 0)),
		}),
	}

	var b strings.Builder
	b.WriteString(info.Branch)
	if compact := symbols.FormatCompact(); compact != "" {
		b.WriteString(" ")
		b.WriteString(compact)
	}
	if info.AheadBy != 0 || info.BehindBy != 0 {
		b.WriteString(" (" + strconv.Itoa(info.AheadBy) + "/" + strconv.Itoa(info.BehindBy) + ")")
	}

	fmt.Println(b.String())
	return nil
}
