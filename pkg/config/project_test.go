package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectParsesShorthandAndTableHooks(t *testing.T) {
	dir := t.TempDir()
	content := `
[hooks]
post-create = "npm install"

[hooks.post-start]
server = "npm run dev"
watcher = "npm run watch"

[ci]
platform = "github"
`
	if err := os.WriteFile(filepath.Join(dir, ProjectConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadProject(dir)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}

	if len(cfg.Hooks.PostCreate) != 1 || cfg.Hooks.PostCreate[0].Command != "npm install" {
		t.Errorf("PostCreate = %+v, want single npm install command", cfg.Hooks.PostCreate)
	}
	if len(cfg.Hooks.PostStart) != 2 {
		t.Fatalf("PostStart = %+v, want 2 named commands", cfg.Hooks.PostStart)
	}
	if cfg.CI == nil || cfg.CI.Platform != "github" {
		t.Errorf("CI = %+v, want platform=github", cfg.CI)
	}
}

func TestLoadProjectMissingFileIsNotError(t *testing.T) {
	cfg, err := LoadProject(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Hooks.Get(HookPostCreate)) != 0 {
		t.Error("expected empty hooks for missing project config")
	}
}
