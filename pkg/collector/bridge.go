package collector

import (
	"context"

	"github.com/gizzahub/gzh-wt/internal/gitcmd"
	"github.com/gizzahub/gzh-wt/pkg/cistatus"
	"github.com/gizzahub/gzh-wt/pkg/listmodel"
	"github.com/gizzahub/gzh-wt/pkg/repository"
)

// CIStatusTask builds the TaskCiStatus Task for one item: it wraps
// cistatus.Detect (which owns its own on-disk cache and gh/glab fallback)
// and narrows its richer pkg/cistatus.PrStatus down to the lean
// listmodel.PrStatus the list model actually renders. This function is the
// only place that imports both packages, keeping listmodel free of a
// dependency on the CI subsystem.
func CIStatusTask(ctx context.Context, itemIndex int, exec *gitcmd.Executor, repo *repository.Repository, branchName cistatus.CiBranchName, localHead string, hasUpstream bool, opts cistatus.Options) Task {
	return Task{
		ItemIndex: itemIndex,
		Kind:      TaskCiStatus,
		Run: func() (Value, error) {
			status := cistatus.Detect(ctx, exec, repo, branchName, localHead, hasUpstream, opts)
			return Value{CI: toListModelStatus(status)}, nil
		},
	}
}

// toListModelStatus narrows a pkg/cistatus.PrStatus to the fields
// listmodel cares about, or returns nil if status itself is nil (no PR/MR
// and no branch pipeline found at all).
func toListModelStatus(status *cistatus.PrStatus) *listmodel.PrStatus {
	if status == nil {
		return nil
	}
	return &listmodel.PrStatus{
		CIStatus: string(status.CIStatus),
		Source:   string(status.Source),
		IsStale:  status.IsStale,
		URL:      status.URL,
	}
}
