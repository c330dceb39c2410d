package directive

import (
	"os"
	"strings"

	"github.com/gizzahub/gzh-wt/internal/gitcmd"
)

// EnvVar names the environment variable the parent shell sets to point at
// the directive file for this invocation.
const EnvVar = gitcmd.DirectiveFileEnvVar

// IsActive reports whether the current process was invoked with a
// directive file configured, i.e. whether it's safe to write one.
func IsActive() bool {
	return os.Getenv(EnvVar) != ""
}

// Writer appends shell directives to the file named by EnvVar. A Writer
// with no directive file configured (IsActive() == false) silently
// no-ops, so callers don't need to branch on --internal everywhere.
type Writer struct {
	path string
}

// NewWriter returns a Writer bound to the current process's directive
// file, or a no-op Writer if none is configured.
func NewWriter() *Writer {
	return &Writer{path: os.Getenv(EnvVar)}
}

// ChangeDir appends "cd '<path>'" to the directive file, single-quote
// escaped so the path is safe even if it contains spaces, quotes, or shell
// metacharacters. Branch names and paths are untrusted input — a branch
// literally named "'; rm -rf ~; '" must never reach the parent shell as
// anything but an inert path component.
func (w *Writer) ChangeDir(path string) error {
	if w == nil || w.path == "" {
		return nil
	}
	return w.append("cd " + quote(path) + "\n")
}

// Execute appends a "cd '<path>'" line followed by the command text on its
// own line. command is passed through verbatim (it comes from the user's
// own --execute flag, not from repository-controlled data like a branch
// name) so the parent shell evaluates it with its normal word-splitting,
// and an "exit N" inside it propagates its status through the shell,
// matching what running the command directly in that directory would have
// done.
func (w *Writer) Execute(path, command string) error {
	if w == nil || w.path == "" {
		return nil
	}
	return w.append("cd " + quote(path) + "\n" + command + "\n")
}

func (w *Writer) append(line string) error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line)
	return err
}

// quote single-quotes s for POSIX sh, escaping embedded single quotes with
// the standard '\'' pattern: close the quote, emit an escaped quote, reopen
// the quote.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
