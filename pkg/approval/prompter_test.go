package approval

import (
	"context"
	"strings"
	"testing"

	"github.com/gizzahub/gzh-wt/pkg/hooks"
)

func TestApproveEmptyPendingIsNoop(t *testing.T) {
	p := Prompter{}
	decisions, err := p.Approve(context.Background(), "example/repo", nil)
	if err != nil {
		t.Fatalf("Approve(nil) = %v, want nil error", err)
	}
	if decisions != nil {
		t.Errorf("Approve(nil) decisions = %v, want nil", decisions)
	}
}

func TestApproveNonTerminalFailsClosed(t *testing.T) {
	// go test's stdout isn't a TTY, so this exercises the fail-closed path
	// without needing to drive an interactive form.
	p := Prompter{}
	pending := []hooks.PendingCommand{{Name: "setup", Template: "make setup", Expanded: "make setup"}}
	_, err := p.Approve(context.Background(), "example/repo", pending)
	if err == nil {
		t.Fatal("Approve() on a non-terminal stdout should fail closed")
	}
	if !strings.Contains(err.Error(), "--force") {
		t.Errorf("error %q should mention --force", err.Error())
	}
}

func TestFormatPreviewIncludesNameAndExpanded(t *testing.T) {
	cmd := hooks.PendingCommand{Name: "build", Template: "make {{ branch }}", Expanded: "make feature-x"}
	preview := formatPreview(cmd)
	if !strings.Contains(preview, "build") || !strings.Contains(preview, "make feature-x") {
		t.Errorf("formatPreview() = %q, want it to mention the name and expanded command", preview)
	}
}
