package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gizzahub/gzh-wt/pkg/branch"
	"github.com/gizzahub/gzh-wt/pkg/listmodel"
)

func TestSumNumstat(t *testing.T) {
	out := "10\t3\tmain.go\n0\t7\tutil.go\n-\t-\tlogo.png\n"
	diff := sumNumstat(out)
	assert.Equal(t, uint64(10), diff.Added)
	assert.Equal(t, uint64(10), diff.Removed)

	assert.Equal(t, listmodel.LineDiff{}, sumNumstat(""))
}

func TestMarkerConfigKeySanitizesSlashes(t *testing.T) {
	assert.Equal(t, "wt.marker.feature-login", markerConfigKey("feature/login"))
	assert.Equal(t, "wt.marker.main", markerConfigKey("main"))
}

func TestGutterRune(t *testing.T) {
	main := &listRow{wt: &branch.Worktree{Path: "/repo", IsMain: true}}
	linked := &listRow{wt: &branch.Worktree{Path: "/repo-wt/feat"}}
	branchOnly := &listRow{}

	assert.Equal(t, "^", gutterRune(main, "/elsewhere"))
	assert.Equal(t, "+", gutterRune(linked, "/elsewhere"))
	assert.Equal(t, " ", gutterRune(branchOnly, "/elsewhere"))

	// Sitting inside a worktree (or a subdirectory of it) marks it current,
	// beating the main-worktree marker.
	assert.Equal(t, "@", gutterRune(main, "/repo"))
	assert.Equal(t, "@", gutterRune(linked, "/repo-wt/feat/src/deep"))
	// A sibling path that merely shares a prefix is not "inside".
	assert.Equal(t, "+", gutterRune(linked, "/repo-wt/feature"))
}

func TestJSONRowPreservesCIStatusTrichotomy(t *testing.T) {
	unfetched := &listmodel.ListItem{Head: "abc"}
	assert.Empty(t, jsonRow("/r", "p", unfetched).CIStatus)

	noCI := &listmodel.ListItem{Head: "abc", PRStatusLoaded: true, PRStatus: nil}
	assert.Empty(t, jsonRow("/r", "p", noCI).CIStatus)

	fetched := &listmodel.ListItem{
		Head:           "abc",
		PRStatusLoaded: true,
		PRStatus:       &listmodel.PrStatus{CIStatus: "passed", URL: "https://example.test/pr/1"},
	}
	row := jsonRow("/r", "p", fetched)
	assert.Equal(t, "passed", row.CIStatus)
	assert.Equal(t, "https://example.test/pr/1", row.URL)
}

func TestSortRowsByRecencyAndProject(t *testing.T) {
	old := &listRow{item: &listmodel.ListItem{
		Branch: "aardvark",
		Commit: listmodel.CommitDetails{Timestamp: time.Unix(100, 0)},
	}}
	recent := &listRow{item: &listmodel.ListItem{
		Branch: "zebra",
		Commit: listmodel.CommitDetails{Timestamp: time.Unix(200, 0)},
	}}

	rows := []*listRow{old, recent}
	sortRows(rows, "recency")
	require.Same(t, recent, rows[0])

	sortRows(rows, "project")
	require.Same(t, old, rows[0])
}
