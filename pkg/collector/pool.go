package collector

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/gizzahub/gzh-wt/pkg/listmodel"
)

// Deadline bounds how long Run waits for outstanding tasks before falling
// back to per-task defaults. 30s comfortably covers a cold gh/glab API call
// while still giving the user a responsive command on a large repo.
const Deadline = 30 * time.Second

// maxItemsWithMissing caps how many item names a TimedOut diagnostic lists,
// so a timeout against a thousand-worktree repo still prints a short message.
const maxItemsWithMissing = 5

// defaultMaxWorkers bounds pool concurrency when nothing overrides it; git
// subprocesses are cheap but plenty of them at once thrashes disk and the
// OS process table on a large repo, so this is capped independent of CPU
// count too.
const defaultMaxWorkers = 16

// maxConcurrentReposEnv is the environment variable the spec names
// explicitly for overriding pool size across the whole tool, independent of
// any one project's config.
const maxConcurrentReposEnv = "W_MAX_CONCURRENT_REPOS"

// ResolveWorkers computes the worker-pool size: an explicit --jobs flag
// (jobsFlag > 0) wins outright; otherwise W_MAX_CONCURRENT_REPOS, if set,
// wins; otherwise configJobs (from user config), if positive; otherwise
// min(NumCPU, 4), capped at defaultMaxWorkers. A W_MAX_CONCURRENT_REPOS of
// 0 with no --jobs override is a hard error naming the variable, since a
// pool size of zero would submit tasks that can never run.
func ResolveWorkers(jobsFlag, configJobs int) (int, error) {
	if jobsFlag > 0 {
		return capWorkers(jobsFlag), nil
	}

	if raw, ok := os.LookupEnv(maxConcurrentReposEnv); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%s=%q is not a valid integer", maxConcurrentReposEnv, raw)
		}
		if n <= 0 {
			return 0, fmt.Errorf("%s is set to %d; pass --jobs to override it", maxConcurrentReposEnv, n)
		}
		return capWorkers(n), nil
	}

	if configJobs > 0 {
		return capWorkers(configJobs), nil
	}

	n := runtime.NumCPU()
	if n > 4 {
		n = 4
	}
	if n < 1 {
		n = 1
	}
	return n, nil
}

func capWorkers(n int) int {
	if n > defaultMaxWorkers {
		return defaultMaxWorkers
	}
	return n
}

// DrainOutcome is the result of running a batch of tasks to completion or
// to the deadline, whichever comes first.
type DrainOutcome struct {
	// TimedOut is true if Deadline elapsed before every task reported back.
	TimedOut bool
	// ReceivedCount is how many of the submitted tasks completed in time.
	ReceivedCount int
	// ItemsWithMissing names (truncated to maxItemsWithMissing) the items
	// that still had an outstanding task when the deadline hit. Only
	// meaningful when TimedOut is true.
	ItemsWithMissing []string
}

// itemNamer resolves an item index to a short display name ("branch or
// first 8 chars of HEAD") for the TimedOut diagnostic, without making
// DrainOutcome depend on how the caller numbers or names its items.
type itemNamer func(itemIndex int) string

// Run submits tasks to a bounded worker pool (sized by ResolveWorkers(0, 0),
// i.e. no --jobs/config override) and folds their results into items as
// they arrive. Any task still outstanding when Deadline elapses gets
// ApplyDefault'd instead of blocking the caller indefinitely. Run never
// returns an error: subprocess failures are per-task (see Task.Run) and
// degrade to a default, matching the "one bad column never kills the whole
// row" requirement.
//
// Callers that need to honor --jobs or the user config's Jobs setting
// should call RunWithWorkers with the result of ResolveWorkers instead.
func Run(ctx context.Context, tasks []Task, items []*listmodel.ListItem, name itemNamer) DrainOutcome {
	workers, err := ResolveWorkers(0, 0)
	if err != nil {
		// Run's signature predates worker-count overrides and can't
		// surface this error; fall back to the hard-coded default rather
		// than panicking on a malformed environment.
		workers = defaultMaxWorkers
	}
	return runWithDeadline(ctx, tasks, items, name, Deadline, workers, nil)
}

// RunWithWorkers is Run with an explicit, caller-resolved pool size (see
// ResolveWorkers).
func RunWithWorkers(ctx context.Context, tasks []Task, items []*listmodel.ListItem, name itemNamer, workers int) DrainOutcome {
	return runWithDeadline(ctx, tasks, items, name, Deadline, workers, nil)
}

// RunWithObserver is RunWithWorkers plus a per-result callback, invoked on
// the drain goroutine after each result (or failure default) has been
// folded into its item. Progressive renderers repaint the one affected row
// from it; buffered renderers pass nil and read the items after the drain.
func RunWithObserver(ctx context.Context, tasks []Task, items []*listmodel.ListItem, name itemNamer, workers int, onResult func(itemIndex int)) DrainOutcome {
	return runWithDeadline(ctx, tasks, items, name, Deadline, workers, onResult)
}

// runWithDeadline is Run's implementation parameterized on the deadline and
// pool size, so tests can exercise the timeout path without waiting 30 real
// seconds and can exercise --jobs=1 serialization.
func runWithDeadline(ctx context.Context, tasks []Task, items []*listmodel.ListItem, name itemNamer, deadline time.Duration, workers int, onResult func(itemIndex int)) DrainOutcome {
	if len(tasks) == 0 {
		return DrainOutcome{}
	}
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	results := make(chan Result, len(tasks))
	sem := semaphore.NewWeighted(int64(workers))

	for _, task := range tasks {
		task := task
		if err := sem.Acquire(ctx, 1); err != nil {
			break // deadline hit while still submitting; drain what ran
		}
		go func() {
			defer sem.Release(1)
			v, err := task.Run()
			select {
			case results <- Result{ItemIndex: task.ItemIndex, Kind: task.Kind, Value: v, Err: err}:
			case <-ctx.Done():
			}
		}()
	}

	// remaining tracks which (item, task) pairs haven't reported back yet,
	// so a timeout can report exactly which items are still incomplete.
	remaining := map[taskKey]bool{}
	for _, t := range tasks {
		remaining[taskKey{t.ItemIndex, t.Kind}] = true
	}

	receivedCount := 0
	for len(remaining) > 0 {
		select {
		case r := <-results:
			delete(remaining, taskKey{r.ItemIndex, r.Kind})
			receivedCount++

			if r.Err == nil {
				ApplyResult(items[r.ItemIndex], r.Kind, r.Value)
			} else {
				ApplyDefault(items[r.ItemIndex], r.Kind)
			}
			if onResult != nil {
				onResult(r.ItemIndex)
			}

		case <-ctx.Done():
			missingItems := map[int]bool{}
			for key := range remaining {
				ApplyDefault(items[key.itemIndex], key.kind)
				missingItems[key.itemIndex] = true
			}

			indices := make([]int, 0, len(missingItems))
			for idx := range missingItems {
				indices = append(indices, idx)
			}
			sort.Ints(indices)
			if len(indices) > maxItemsWithMissing {
				indices = indices[:maxItemsWithMissing]
			}

			names := make([]string, 0, len(indices))
			for _, idx := range indices {
				if name != nil {
					names = append(names, name(idx))
				} else {
					names = append(names, fmt.Sprintf("item[%d]", idx))
				}
			}

			return DrainOutcome{
				TimedOut:         true,
				ReceivedCount:    receivedCount,
				ItemsWithMissing: names,
			}
		}
	}

	return DrainOutcome{ReceivedCount: receivedCount}
}

type taskKey struct {
	itemIndex int
	kind      TaskKind
}
