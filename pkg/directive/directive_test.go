package directive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQuoteEscapesSingleQuotes(t *testing.T) {
	require.Equal(t, "'abc'", quote("abc"))
	require.Equal(t, `'it'\''s'`, quote("it's"))
	require.Equal(t, `''\''; rm -rf ~; '\'''`, quote("'; rm -rf ~; '"))
}

func TestWriterChangeDirAppendsCdLine(t *testing.T) {
	dir := t.TempDir()
	directiveFile := filepath.Join(dir, "directive")
	require.NoError(t, os.Setenv(EnvVar, directiveFile))
	defer os.Unsetenv(EnvVar)

	require.True(t, IsActive())

	w := NewWriter()
	require.NoError(t, w.ChangeDir("/tmp/some worktree"))

	contents, err := os.ReadFile(directiveFile)
	require.NoError(t, err)
	require.Equal(t, "cd '/tmp/some worktree'\n", string(contents))
}

func TestWriterExecuteIncludesVerbatimCommand(t *testing.T) {
	dir := t.TempDir()
	directiveFile := filepath.Join(dir, "directive")
	require.NoError(t, os.Setenv(EnvVar, directiveFile))
	defer os.Unsetenv(EnvVar)

	w := NewWriter()
	require.NoError(t, w.Execute("/repo/wt/feature", "npm test"))

	contents, err := os.ReadFile(directiveFile)
	require.NoError(t, err)
	require.Equal(t, "cd '/repo/wt/feature'\nnpm test\n", string(contents))
}

func TestWriterNoopWhenNotActive(t *testing.T) {
	require.NoError(t, os.Unsetenv(EnvVar))
	require.False(t, IsActive())

	w := NewWriter()
	require.NoError(t, w.ChangeDir("/whatever"))
}

func TestBranchNameIsDirectiveNotExecuted(t *testing.T) {
	dir := t.TempDir()
	directiveFile := filepath.Join(dir, "directive")
	require.NoError(t, os.Setenv(EnvVar, directiveFile))
	defer os.Unsetenv(EnvVar)

	w := NewWriter()
	maliciousBranch := "$(touch /tmp/pwned)"
	require.NoError(t, w.ChangeDir(maliciousBranch))

	contents, err := os.ReadFile(directiveFile)
	require.NoError(t, err)
	// Single-quoted, so the shell never expands $(...).
	require.Equal(t, "cd '$(touch /tmp/pwned)'\n", string(contents))
}
