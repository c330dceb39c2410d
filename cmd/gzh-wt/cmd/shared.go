package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/gizzahub/gzh-wt/internal/gitcmd"
	"github.com/gizzahub/gzh-wt/pkg/branch"
	"github.com/gizzahub/gzh-wt/pkg/config"
	"github.com/gizzahub/gzh-wt/pkg/repository"
)

// cmdContext bundles the handles every command needs: a repo open on the
// current directory, its user config, and an executor tagged for tracing.
type cmdContext struct {
	ctx      context.Context
	exec     *gitcmd.Executor
	client   repository.Client
	repo     *repository.Repository
	worktree branch.WorktreeManager
	userCfg  *config.UserConfig
}

// openCmdContext opens the repository rooted at the current working
// directory and loads the user config. traceContext tags every git
// subprocess this command spawns for later [wt-trace]/chrome-trace
// analysis; under --verbose the trace lines are written to the log.
func openCmdContext(traceContext string) (*cmdContext, error) {
	opts := []gitcmd.Option{gitcmd.WithTraceContext(traceContext)}
	if verbose {
		opts = append(opts, gitcmd.WithLogger(log.Logger))
	}
	exec := gitcmd.NewExecutor(opts...)

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}

	client := repository.NewClient(repository.WithExecutor(exec))
	ctx := context.Background()
	repo, err := client.Open(ctx, wd)
	if err != nil {
		return nil, fmt.Errorf("not a git repository (or any parent): %w", err)
	}

	userCfg, err := config.LoadUser()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load user config, using defaults")
		userCfg = &config.UserConfig{}
	}

	return &cmdContext{
		ctx:      ctx,
		exec:     exec,
		client:   client,
		repo:     repo,
		worktree: branch.NewWorktreeManagerWithExecutor(exec),
		userCfg:  userCfg,
	}, nil
}
