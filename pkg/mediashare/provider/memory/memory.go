// Package memory provides an in-process transformation provider used by the
// development preset and by tests that need to count or fail provider calls.
package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/skypixel/mediashare/pkg/mediashare"
	"github.com/skypixel/mediashare/pkg/mediashare/transform"
)

// Provider is an in-memory implementation of mediashare.Provider.
type Provider struct {
	mu         sync.Mutex
	uploads    int
	seq        int
	result     *mediashare.UploadResult
	err        error
	configured bool
	urls       *transform.URLBuilder
	lastOpts   mediashare.UploadOptions
}

// Option configures the fake provider.
type Option func(*Provider)

// WithResult pins the result returned by every Upload call.
func WithResult(result *mediashare.UploadResult) Option {
	return func(p *Provider) {
		p.result = result
	}
}

// WithError makes every Upload call fail with err.
func WithError(err error) Option {
	return func(p *Provider) {
		p.err = err
	}
}

// WithoutCredentials makes Configured report false.
func WithoutCredentials() Option {
	return func(p *Provider) {
		p.configured = false
	}
}

// WithDelivery overrides the delivery origin derived URLs point at.
func WithDelivery(baseURL, cloudName string) Option {
	return func(p *Provider) {
		p.urls = transform.NewURLBuilder(baseURL, cloudName)
	}
}

// New creates a fake provider. By default it is configured, succeeds, and
// issues sequential identifiers under the requested folder.
func New(opts ...Option) *Provider {
	p := &Provider{
		configured: true,
		urls:       transform.NewURLBuilder("https://res.fake.test", "dev"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Configured() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.configured
}

func (p *Provider) URLs() *transform.URLBuilder {
	return p.urls
}

// Upload consumes the payload and returns either the pinned result, the
// pinned error, or a synthesized result with a sequential identifier.
func (p *Provider) Upload(ctx context.Context, reader io.Reader, opts mediashare.UploadOptions) (*mediashare.UploadResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.uploads++
	p.lastOpts = opts

	if p.err != nil {
		return nil, p.err
	}
	if p.result != nil {
		out := *p.result
		return &out, nil
	}

	p.seq++
	return &mediashare.UploadResult{
		PublicID:     fmt.Sprintf("%s/fake-%d", opts.Folder, p.seq),
		Bytes:        int64(len(data)),
		ResourceType: string(opts.Kind),
	}, nil
}

// Uploads reports how many Upload calls reached the provider.
func (p *Provider) Uploads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.uploads
}

// LastOptions returns the options of the most recent Upload call.
func (p *Provider) LastOptions() mediashare.UploadOptions {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastOpts
}
