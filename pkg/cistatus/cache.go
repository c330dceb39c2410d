package cistatus

import (
	"encoding/json"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	ttlBaseSeconds   = 30
	ttlJitterSeconds = 30
)

// CachedCiStatus is the on-disk cache entry for one branch's CI status,
// stored at "<git-common-dir>/wt-cache/ci-status/<branch>.json". A
// file-based cache (instead of git config) avoids lock contention with
// concurrent git operations.
type CachedCiStatus struct {
	// Status is nil when the last lookup found no CI for this branch — a
	// negative result is cached too, so a branch with no CI doesn't get
	// re-queried on every invocation.
	Status    *PrStatus `json:"status"`
	CheckedAt int64     `json:"checked_at"`
	Head      string    `json:"head"`
	Branch    string    `json:"branch"`
}

// ttlForRepo computes a per-repo TTL in [30, 60) seconds: the base plus a
// jitter derived from the repo path's hash, so that concurrent statuslines
// across different repos don't all expire their caches in lockstep and
// hammer the API at the same moment.
func ttlForRepo(repoRoot string) time.Duration {
	h := fnv.New64a()
	_, _ = h.Write([]byte(repoRoot))
	jitter := h.Sum64() % ttlJitterSeconds
	return time.Duration(ttlBaseSeconds+jitter) * time.Second
}

// isValid reports whether the cache entry still applies: HEAD hasn't moved
// and the TTL (with its repo-path jitter) hasn't elapsed.
func (c *CachedCiStatus) isValid(currentHead string, now time.Time, repoRoot string) bool {
	if c.Head != currentHead {
		return false
	}
	age := now.Sub(time.Unix(c.CheckedAt, 0))
	return age < ttlForRepo(repoRoot)
}

func cacheDir(gitCommonDir string) string {
	return filepath.Join(gitCommonDir, "wt-cache", "ci-status")
}

func cacheFile(gitCommonDir, branch string) string {
	return filepath.Join(cacheDir(gitCommonDir), sanitizeForFilename(branch)+".json")
}

// sanitizeForFilename replaces path-hostile characters (mainly "/", from
// branch names like "feature/foo") with "-" so the cache file stays a
// single path segment.
func sanitizeForFilename(name string) string {
	return strings.NewReplacer("/", "-", "\\", "-", ":", "-").Replace(name)
}

// readCache reads a cached entry, returning ok=false on any read/parse
// failure (including "no cache file yet") — all such cases are treated as
// a plain cache miss, never an error.
func readCache(gitCommonDir, branch string) (*CachedCiStatus, bool) {
	data, err := os.ReadFile(cacheFile(gitCommonDir, branch))
	if err != nil {
		return nil, false
	}
	var cached CachedCiStatus
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}
	return &cached, true
}

// writeCache writes the entry atomically (temp file + rename) so a reader
// never observes a partially written cache file.
func writeCache(gitCommonDir, branch string, entry *CachedCiStatus) {
	dir := cacheDir(gitCommonDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Debug().Err(err).Str("branch", branch).Msg("failed to create CI cache dir")
		return
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Debug().Err(err).Str("branch", branch).Msg("failed to serialize CI cache entry")
		return
	}

	path := cacheFile(gitCommonDir, branch)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Debug().Err(err).Str("branch", branch).Msg("failed to write CI cache temp file")
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		log.Debug().Err(err).Str("branch", branch).Msg("failed to rename CI cache file")
		_ = os.Remove(tmp)
	}
}

// ClearAll removes every cached CI status entry for the repository,
// returning the count cleared.
func ClearAll(gitCommonDir string) int {
	entries, err := os.ReadDir(cacheDir(gitCommonDir))
	if err != nil {
		return 0
	}
	cleared := 0
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if os.Remove(filepath.Join(cacheDir(gitCommonDir), e.Name())) == nil {
			cleared++
		}
	}
	return cleared
}

// ListAll returns every cached CI status entry for the repository, keyed by
// the original branch name.
func ListAll(gitCommonDir string) map[string]CachedCiStatus {
	entries, err := os.ReadDir(cacheDir(gitCommonDir))
	if err != nil {
		return nil
	}
	out := make(map[string]CachedCiStatus)
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(cacheDir(gitCommonDir), e.Name()))
		if err != nil {
			continue
		}
		var cached CachedCiStatus
		if err := json.Unmarshal(data, &cached); err != nil {
			continue
		}
		out[cached.Branch] = cached
	}
	return out
}
