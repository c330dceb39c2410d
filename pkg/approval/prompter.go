package approval

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/gizzahub/gzh-wt/internal/style"
	"github.com/gizzahub/gzh-wt/pkg/config"
	"github.com/gizzahub/gzh-wt/pkg/hooks"
)

// Prompter is a huh-based interactive hooks.Approver. It previews every
// pending command in one batch form, then persists every accepted command
// to the user config under ConfigPath (""  for the default location) so it
// never prompts for that exact template again.
type Prompter struct {
	ConfigPath string
}

var _ hooks.Approver = Prompter{}

// Approve implements hooks.Approver. A non-interactive stdout fails closed
// rather than silently running unreviewed commands — the caller is told to
// re-run with --force instead of getting a prompt it can't answer.
func (p Prompter) Approve(_ context.Context, project string, pending []hooks.PendingCommand) (map[string]bool, error) {
	if len(pending) == 0 {
		return nil, nil
	}
	if !isTerminal() {
		return nil, fmt.Errorf("%d hook command(s) require approval and stdout is not a terminal: re-run with --force", len(pending))
	}

	selected := make([]string, len(pending))
	options := make([]huh.Option[string], len(pending))
	for i, cmd := range pending {
		options[i] = huh.NewOption(formatPreview(cmd), cmd.Name).Selected(true)
		selected[i] = cmd.Name
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(fmt.Sprintf("Approve %d hook command(s) for %s", len(pending), project)).
				Description("Space to toggle, enter to confirm. Declined commands are skipped, not persisted.").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("approval prompt: %w", err)
	}

	approvedNames := make(map[string]bool, len(selected))
	for _, name := range selected {
		approvedNames[name] = true
	}

	decisions := make(map[string]bool, len(pending))
	for _, cmd := range pending {
		approved := approvedNames[cmd.Name]
		decisions[cmd.Name] = approved
		if !approved {
			continue
		}
		if err := config.ApproveCommand(p.ConfigPath, project, cmd.Template); err != nil {
			return nil, fmt.Errorf("persist approval for %q: %w", cmd.Name, err)
		}
	}
	return decisions, nil
}

// formatPreview renders one option label: the hook's own name, then a
// dimmed gutter bar and the fully expanded command that will actually run.
func formatPreview(cmd hooks.PendingCommand) string {
	gutter := style.Dim.Render("│")
	return fmt.Sprintf("%s\n  %s %s", cmd.Name, gutter, style.Value.Render(cmd.Expanded))
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
