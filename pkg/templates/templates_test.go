package templates

import "testing"

func TestRenderBasicSubstitution(t *testing.T) {
	got, err := Render("../{{ repo }}-worktrees/{{ branch }}", Vars{Repo: "widgets", Branch: "feature/foo"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "../widgets-worktrees/feature-foo"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderFilters(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		vars Vars
		want string
	}{
		{"basename", "{{ repo_root | basename }}", Vars{RepoRoot: "/home/me/widgets"}, "widgets"},
		{"dirname", "{{ repo_root | dirname }}", Vars{RepoRoot: "/home/me/widgets"}, "/home/me"},
		{"shell_quote", "{{ worktree | shell_quote }}", Vars{Worktree: "it's here"}, `'it'\''s here'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.vars)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderUnknownVariableIsHardError(t *testing.T) {
	_, err := Render("{{ nonexistent }}", Vars{})
	if err == nil {
		t.Fatal("expected error for unknown variable")
	}
}

func TestRenderUnknownFilterIsHardError(t *testing.T) {
	_, err := Render("{{ repo | uppercase }}", Vars{Repo: "widgets"})
	if err == nil {
		t.Fatal("expected error for unknown filter")
	}
}

func TestRenderExtraVars(t *testing.T) {
	got, err := Render("{{ custom }}", Vars{Extra: map[string]string{"custom": "value"}})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "value" {
		t.Errorf("Render() = %q, want %q", got, "value")
	}
}
