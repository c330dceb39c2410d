package repository

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gizzahub/gzh-wt/pkg/branch"
)

// Client opens repositories and inspects their working-tree state. It is the
// entry point every command builds a Repository handle from.
type Client interface {
	// Open opens an existing Git repository at the specified path, walking
	// up to the enclosing repository the same way "git rev-parse" does.
	Open(ctx context.Context, path string) (*Repository, error)

	// IsRepository reports whether path is inside a Git working tree.
	IsRepository(ctx context.Context, path string) bool

	// GetInfo retrieves branch/remote/upstream metadata for repo.
	GetInfo(ctx context.Context, repo *Repository) (*Info, error)

	// GetStatus retrieves the current working tree status for repo.
	GetStatus(ctx context.Context, repo *Repository) (*Status, error)
}

// Logger provides a logging interface for library consumers. Library code
// accepts Logger via dependency injection rather than taking a hard
// dependency on a concrete logging framework.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Repository is a handle to a single Git repository, shared through the call
// tree of one command invocation. Its cache fields are single-initialization:
// populated lazily on first access and never invalidated during a run.
type Repository struct {
	// Path is the repo's working-tree root (stable across all its worktrees).
	Path string

	// GitCommonDir is the shared ".git" metadata directory all worktrees of
	// this repository point back to.
	GitCommonDir string

	// IsBare indicates a bare repository (no working tree).
	IsBare bool

	cache repoCache
}

type repoCache struct {
	defaultBranch     onceValue[string]
	primaryRemote     onceValue[string]
	primaryRemoteURL  onceValue[string]
	projectIdentifier onceValue[string]
	worktrees         onceValue[[]*branch.Worktree]
}

// onceValue is a per-Repository-instance single-initialization cache; unlike
// sync.Once it stores the computed value and error together so repeated
// calls after a failed first attempt are cheap but not retried.
type onceValue[T any] struct {
	done bool
	val  T
	err  error
}

func (o *onceValue[T]) getOrInit(fn func() (T, error)) (T, error) {
	if !o.done {
		o.val, o.err = fn()
		o.done = true
	}
	return o.val, o.err
}

// Info contains detailed repository information.
type Info struct {
	Branch           string
	Commit           string
	Remote           string
	RemoteURL        string
	IsDirty          bool
	Upstream         string
	AheadBy          int
	BehindBy         int
	HeadSHA          string
	Describe         string
	LocalBranches    []string
	StashCount       int
	LastCommitMsg    string
	LastCommitDate   string
	LastCommitAuthor string
}

// Status represents the working tree and staging area status.
type Status struct {
	IsClean        bool
	ModifiedFiles  []string
	StagedFiles    []string
	UntrackedFiles []string
	ConflictFiles  []string
	DeletedFiles   []string
	RenamedFiles   []RenamedFile
}

// RenamedFile represents a file that has been renamed.
type RenamedFile struct {
	OldPath string
	NewPath string
}

// Result represents the result of a Git operation.
type Result struct {
	Success   bool
	Output    string
	Error     string
	ExitCode  int
	Duration  time.Duration
	Timestamp time.Time
}

type noopLogger struct{}

func (n *noopLogger) Debug(msg string, args ...interface{}) {}
func (n *noopLogger) Info(msg string, args ...interface{})  {}
func (n *noopLogger) Warn(msg string, args ...interface{})  {}
func (n *noopLogger) Error(msg string, args ...interface{}) {}

// NewNoopLogger creates a no-op logger, useful for tests.
func NewNoopLogger() Logger { return &noopLogger{} }

// WriterLogger wraps an io.Writer as a simple logger.
type WriterLogger struct {
	w io.Writer
}

// NewWriterLogger creates a logger that writes to an io.Writer.
func NewWriterLogger(w io.Writer) Logger {
	return &WriterLogger{w: w}
}

func (l *WriterLogger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args...) }
func (l *WriterLogger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args...) }
func (l *WriterLogger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args...) }
func (l *WriterLogger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args...) }

func (l *WriterLogger) log(level, msg string, args ...interface{}) {
	if l.w == nil {
		return
	}
	output := "[" + level + "] " + msg
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			output += " " + key + "=" + formatValue(args[i+1])
		}
	}
	output += "\n"
	_, _ = l.w.Write([]byte(output))
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case error:
		return val.Error()
	default:
		return fmt.Sprintf("%v", val)
	}
}
