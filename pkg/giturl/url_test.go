package giturl_test

import (
	"testing"

	"github.com/gizzahub/gzh-wt/pkg/giturl"
)

func TestParse_HTTPS(t *testing.T) {
	u, ok := giturl.Parse("https://github.com/owner/repo.git")
	if !ok {
		t.Fatal("Parse() returned ok=false")
	}
	if u.Host != "github.com" || u.Owner != "owner" || u.Repo != "repo" {
		t.Errorf("Parse() = %+v", u)
	}
	if u.ProjectIdentifier() != "github.com/owner/repo" {
		t.Errorf("ProjectIdentifier() = %q", u.ProjectIdentifier())
	}

	u, ok = giturl.Parse("https://github.com/owner/repo")
	if !ok || u.Repo != "repo" {
		t.Errorf("Parse() without .git suffix = %+v, %v", u, ok)
	}

	u, ok = giturl.Parse("  https://github.com/owner/repo.git\n")
	if !ok || u.Owner != "owner" {
		t.Errorf("Parse() with whitespace = %+v, %v", u, ok)
	}
}

func TestParse_GitAt(t *testing.T) {
	u, ok := giturl.Parse("git@github.com:owner/repo.git")
	if !ok || u.ProjectIdentifier() != "github.com/owner/repo" {
		t.Errorf("Parse() = %+v, %v", u, ok)
	}

	u, ok = giturl.Parse("git@gitlab.example.com:owner/repo.git")
	if !ok || !u.IsGitLab() {
		t.Errorf("expected gitlab host, got %+v", u)
	}
}

func TestParse_SSH(t *testing.T) {
	u, ok := giturl.Parse("ssh://git@github.com/owner/repo.git")
	if !ok || u.ProjectIdentifier() != "github.com/owner/repo" {
		t.Errorf("Parse() = %+v, %v", u, ok)
	}

	u, ok = giturl.Parse("ssh://github.com/owner/repo.git")
	if !ok || u.Owner != "owner" {
		t.Errorf("Parse() without user = %+v, %v", u, ok)
	}
}

func TestParse_SSHWithPortRejected(t *testing.T) {
	_, ok := giturl.Parse("ssh://token@github.com:2222/owner/repo.git")
	if ok {
		t.Error("Parse() should reject port-bearing ssh URLs")
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := []string{
		"",
		"https://github.com/",
		"https://github.com/owner/",
		"git@github.com:",
		"git@github.com:owner/",
		"ftp://github.com/owner/repo.git",
	}
	for _, c := range cases {
		if _, ok := giturl.Parse(c); ok {
			t.Errorf("Parse(%q) should fail", c)
		}
	}
}

func TestIsGitHubIsGitLab(t *testing.T) {
	u, _ := giturl.Parse("https://github.mycompany.com/owner/repo.git")
	if !u.IsGitHub() {
		t.Error("expected GitHub Enterprise host to match IsGitHub")
	}

	u, _ = giturl.Parse("https://gitlab.com/owner/repo.git")
	if !u.IsGitLab() || u.IsGitHub() {
		t.Errorf("gitlab.com misclassified: %+v", u)
	}
}

func TestFallbackIdentifier_StripsUserinfoFromSSHPortURL(t *testing.T) {
	got := giturl.FallbackIdentifier("ssh://token@github.com:2222/owner/repo.git")
	want := "github.com/2222/owner/repo"
	if got != want {
		t.Errorf("FallbackIdentifier() = %q, want %q", got, want)
	}
	if want == "" {
		t.Fatal("sanity")
	}
}

func TestParseOwnerRepo(t *testing.T) {
	owner, repo, ok := giturl.ParseOwnerRepo("https://github.com/owner/repo.git")
	if !ok || owner != "owner" || repo != "repo" {
		t.Errorf("ParseOwnerRepo() = %q, %q, %v", owner, repo, ok)
	}

	_, _, ok = giturl.ParseOwnerRepo("")
	if ok {
		t.Error("ParseOwnerRepo(\"\") should fail")
	}
}
