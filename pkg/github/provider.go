package github

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/gizzahub/gzh-wt/pkg/ratelimit"
)

// Provider is the SDK-backed GitHub client used by the CI status
// subsystem's fallback path when the gh CLI isn't installed.
type Provider struct {
	client      *github.Client
	token       string
	rateLimiter *ratelimit.Limiter
	mu          sync.RWMutex
}

// NewProvider creates a new GitHub provider
func NewProvider(token string) *Provider {
	p := &Provider{
		token:       token,
		rateLimiter: ratelimit.NewLimiter(5000), // GitHub default
	}
	p.initClient(token)
	return p
}

func (p *Provider) initClient(token string) {
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(context.Background(), ts)
		p.client = github.NewClient(tc)
	} else {
		p.client = github.NewClient(nil)
	}
}

// SetToken sets the authentication token
func (p *Provider) SetToken(token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
	p.initClient(token)
	return nil
}

// ValidateToken validates the current token
func (p *Provider) ValidateToken(ctx context.Context) (bool, error) {
	if p.token == "" {
		return false, nil
	}
	_, _, err := p.client.Users.Get(ctx, "")
	if err != nil {
		return false, nil
	}
	return true, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "github"
}

// CheckRun is the subset of a GitHub check run's result cistatus needs to
// aggregate a commit's overall CI status via the REST API, used as the
// fallback when the gh CLI itself isn't installed.
type CheckRun struct {
	Status     string
	Conclusion string
}

// CheckRunsForRef lists the check runs for a commit SHA via the REST API
// (Checks.ListCheckRunsForRef), the SDK equivalent of
// `gh api repos/{owner}/{repo}/commits/{sha}/check-runs`.
func (p *Provider) CheckRunsForRef(ctx context.Context, owner, repo, ref string) ([]CheckRun, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	result, resp, err := p.client.Checks.ListCheckRunsForRef(ctx, owner, repo, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("list check runs for %s/%s@%s: %w", owner, repo, ref, err)
	}
	if resp != nil {
		p.rateLimiter.UpdateFromHeaders(resp.Response)
	}
	runs := make([]CheckRun, 0, len(result.CheckRuns))
	for _, r := range result.CheckRuns {
		runs = append(runs, CheckRun{Status: r.GetStatus(), Conclusion: r.GetConclusion()})
	}
	return runs, nil
}
