package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/feedcheck/feedcheck/pkg/feed"
	"github.com/feedcheck/feedcheck/pkg/parser"
	"github.com/feedcheck/feedcheck/pkg/rules"
	"github.com/feedcheck/feedcheck/pkg/validator"
)

const (
	// DefaultMaxUploadBytes caps the accepted feed payload size.
	DefaultMaxUploadBytes = 32 << 20 // 32 MiB

	// DefaultFetchTimeout bounds remote feed downloads.
	DefaultFetchTimeout = 30 * time.Second
)

// Pipeline ties the parser and the rule engine together behind the service
// endpoints: bytes in, validation result out. Each call runs with fresh
// engine state, so one Pipeline serves concurrent requests.
type Pipeline struct {
	parser         *parser.Parser
	validator      *validator.Validator
	client         *http.Client
	maxUploadBytes int64
}

// PipelineOption is a functional option for configuring Pipeline instances.
type PipelineOption func(*Pipeline)

// WithHTTPClient returns an option replacing the remote-fetch client.
func WithHTTPClient(client *http.Client) PipelineOption {
	return func(p *Pipeline) {
		if client != nil {
			p.client = client
		}
	}
}

// WithMaxUploadBytes returns an option overriding the payload size cap.
func WithMaxUploadBytes(n int64) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxUploadBytes = n
		}
	}
}

// New builds the full validation pipeline from the embedded rule tables.
// Validator options (row cap, injected clock) pass through to the engine.
func New(ctx context.Context, vopts ...validator.Option) (*Pipeline, error) {
	tables, err := rules.Load(ctx)
	if err != nil {
		return nil, err
	}

	norm := feed.NewNormalizer(tables.Aliases)

	return &Pipeline{
		parser:         parser.New(norm),
		validator:      validator.New(tables, vopts...),
		client:         &http.Client{Timeout: DefaultFetchTimeout},
		maxUploadBytes: DefaultMaxUploadBytes,
	}, nil
}

// Apply applies options after construction.
func (p *Pipeline) Apply(opts ...PipelineOption) *Pipeline {
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ValidateBytes parses raw feed bytes and validates the resulting records.
// Parse failures are returned as errors; they never become validation
// issues.
func (p *Pipeline) ValidateBytes(ctx context.Context, data []byte, delimiter, charset string) (*validator.Result, error) {
	records, err := p.parser.Parse(data, delimiter, charset)
	if err != nil {
		return nil, err
	}
	return p.validator.Validate(ctx, records), nil
}
