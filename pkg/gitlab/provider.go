package gitlab

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/xanzy/go-gitlab"

	"github.com/gizzahub/gzh-wt/pkg/ratelimit"
)

// Provider is the SDK-backed GitLab client used by the CI status
// subsystem's fallback path when the glab CLI isn't installed.
type Provider struct {
	client      *gitlab.Client
	token       string
	baseURL     string
	rateLimiter *ratelimit.Limiter
	mu          sync.RWMutex
}

// NewProvider creates a new GitLab provider. baseURL is the API endpoint
// of a self-hosted instance; "" means gitlab.com.
func NewProvider(token, baseURL string) (*Provider, error) {
	p := &Provider{
		token:       token,
		baseURL:     baseURL,
		rateLimiter: ratelimit.NewLimiter(2000), // GitLab default
	}

	if err := p.initClient(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Provider) initClient() error {
	// Transient 5xx/connection failures get retried with backoff at the
	// transport layer; rate-limit pacing stays with pkg/ratelimit, which
	// reads the response headers the retry transport passes through.
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil

	opts := []gitlab.ClientOptionFunc{gitlab.WithHTTPClient(rc.StandardClient())}
	if p.baseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(p.baseURL))
	}

	client, err := gitlab.NewClient(p.token, opts...)
	if err != nil {
		return fmt.Errorf("failed to create GitLab client: %w", err)
	}

	p.client = client
	return nil
}

// SetToken sets the authentication token
func (p *Provider) SetToken(token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
	return p.initClient()
}

// ValidateToken validates the current token
func (p *Provider) ValidateToken(ctx context.Context) (bool, error) {
	if p.token == "" {
		return false, nil
	}
	_, _, err := p.client.Users.CurrentUser(gitlab.WithContext(ctx))
	if err != nil {
		return false, nil
	}
	return true, nil
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "gitlab"
}

// Pipeline is the subset of a GitLab pipeline's result cistatus needs,
// used as the fallback when the glab CLI itself isn't installed.
type Pipeline struct {
	Status string
	SHA    string
	WebURL string
}

// LatestPipelineForRef returns the most recent pipeline for a branch ref
// via the REST API, the SDK equivalent of `glab ci list --ref <branch>`.
func (p *Provider) LatestPipelineForRef(ctx context.Context, projectPath, ref string) (*Pipeline, error) {
	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	opts := &gitlab.ListProjectPipelinesOptions{
		Ref:         gitlab.Ptr(ref),
		ListOptions: gitlab.ListOptions{PerPage: 1},
	}
	pipelines, resp, err := p.client.Pipelines.ListProjectPipelines(projectPath, opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list pipelines for %s@%s: %w", projectPath, ref, err)
	}
	if resp != nil {
		p.rateLimiter.UpdateFromHeaders(resp.Response)
	}
	if len(pipelines) == 0 {
		return nil, nil
	}
	pl := pipelines[0]
	return &Pipeline{Status: pl.Status, SHA: pl.SHA, WebURL: pl.WebURL}, nil
}
