package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// HookType names one of the five hook points a project can configure.
type HookType string

const (
	HookPostCreate HookType = "post-create"
	HookPostStart  HookType = "post-start"
	HookPreCommit  HookType = "pre-commit"
	HookPreMerge   HookType = "pre-merge"
	HookPostMerge  HookType = "post-merge"
)

// Hooks is every hook point a project config can define. Each hook may be a
// single command string or a table of named commands; HookCommands'
// UnmarshalTOML normalizes both shapes into one ordered slice.
type Hooks struct {
	PostCreate HookCommands `toml:"post-create,omitempty"`
	PostStart  HookCommands `toml:"post-start,omitempty"`
	PreCommit  HookCommands `toml:"pre-commit,omitempty"`
	PreMerge   HookCommands `toml:"pre-merge,omitempty"`
	PostMerge  HookCommands `toml:"post-merge,omitempty"`
}

// Get returns the commands configured for a hook type.
func (h Hooks) Get(t HookType) HookCommands {
	switch t {
	case HookPostCreate:
		return h.PostCreate
	case HookPostStart:
		return h.PostStart
	case HookPreCommit:
		return h.PreCommit
	case HookPreMerge:
		return h.PreMerge
	case HookPostMerge:
		return h.PostMerge
	default:
		return nil
	}
}

// NamedCommand is one command within a hook's ordered map form.
type NamedCommand struct {
	Name    string
	Command string
}

// HookCommands is the normalized form of either a single "hook = \"cmd\""
// string or a `[hooks.post-create]` table of named commands. It
// always decodes to an ordered slice so hook execution order is
// deterministic regardless of which TOML shape the user wrote.
type HookCommands []NamedCommand

// UnmarshalTOML implements custom decoding so both shapes are accepted.
func (h *HookCommands) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		*h = HookCommands{{Name: "default", Command: v}}
		return nil
	case map[string]interface{}:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		// BurntSushi/toml gives us a Go map, which has no stable order;
		// without the original document's key order we fall back to a
		// deterministic-but-arbitrary sort so behavior doesn't vary
		// between runs, at the cost of not preserving author-written
		// hook order for the table form.
		sortStrings(names)
		out := make(HookCommands, 0, len(names))
		for _, name := range names {
			cmd, ok := v[name].(string)
			if !ok {
				return fmt.Errorf("hook command %q must be a string", name)
			}
			out = append(out, NamedCommand{Name: name, Command: cmd})
		}
		*h = out
		return nil
	default:
		return fmt.Errorf("unsupported hook value type %T", data)
	}
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// CIConfig is the `[ci]` section of a project config: platform override and
// optional API-fallback tokens for when neither gh nor glab is installed.
type CIConfig struct {
	Platform     string `toml:"platform,omitempty"`
	GitHubToken  string `toml:"github-token,omitempty"`
	GitLabToken  string `toml:"gitlab-token,omitempty"`
}

// ProjectConfig is the in-repository config file, <repo>/.gzh-wt.toml.
type ProjectConfig struct {
	Hooks Hooks     `toml:"hooks,omitempty"`
	CI    *CIConfig `toml:"ci,omitempty"`

	// URLTemplate, when set, is expanded per worktree (same template
	// variables as hooks) into the dev-server URL shown in the list's URL
	// column, e.g. "http://{{ branch }}.localhost:3000".
	URLTemplate string `toml:"url-template,omitempty"`
}

// ProjectConfigFileName is the basename of the in-repo config file.
const ProjectConfigFileName = ".gzh-wt.toml"

// LoadProject loads <repoRoot>/.gzh-wt.toml. A missing file is not an
// error: it returns an empty, valid ProjectConfig.
func LoadProject(repoRoot string) (*ProjectConfig, error) {
	path := filepath.Join(repoRoot, ProjectConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ProjectConfig{}, nil
		}
		return nil, fmt.Errorf("read project config %s: %w", path, err)
	}
	cfg := &ProjectConfig{}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse project config %s: %w", path, err)
	}
	return cfg, nil
}
