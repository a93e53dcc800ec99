// Package crossref provides the citation-registry enrichment client for
// the Crossref REST API.
//
// Enrichment is strictly best-effort: any upstream failure yields an empty
// payload, never an error, so one bad work can never abort the batch.
//
// API Documentation: https://api.crossref.org/
package crossref

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/publication-metadata-service/internal/domain"
	"github.com/helixir/publication-metadata-service/internal/identifier"
	"github.com/helixir/publication-metadata-service/internal/providers"
)

// DefaultBaseURL is the default Crossref API base URL.
const DefaultBaseURL = "https://api.crossref.org"

// Config holds configuration for the Crossref client.
type Config struct {
	// BaseURL is the Crossref API base URL. Defaults to https://api.crossref.org
	BaseURL string

	// Email is the contact email for the Crossref polite pool.
	Email string

	// Timeout is the request timeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	BurstSize int
}

// workResponse is the top-level response from the works endpoint.
type workResponse struct {
	Message message `json:"message"`
}

// message holds the fields consumed from a Crossref work.
type message struct {
	Publisher           string   `json:"publisher"`
	Subject             []string `json:"subject"`
	IsReferencedByCount int      `json:"is-referenced-by-count"`
	Funder              []funder `json:"funder"`
}

type funder struct {
	Name string `json:"name"`
}

// Client fetches citation-registry metadata by DOI.
type Client struct {
	config     Config
	httpClient *providers.HTTPClient
	logger     zerolog.Logger
}

// New creates a new Crossref client.
func New(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	httpClient := providers.NewHTTPClient(providers.HTTPClientConfig{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		BurstSize: cfg.BurstSize,
		UserAgent: "Helixir-PublicationMetadata/1.0 (mailto:" + cfg.Email + ")",
	})

	return NewWithHTTPClient(cfg, httpClient, logger)
}

// NewWithHTTPClient creates a client with a custom HTTP client, for tests.
func NewWithHTTPClient(cfg Config, httpClient *providers.HTTPClient, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Client{
		config:     cfg,
		httpClient: httpClient,
		logger:     logger.With().Str("provider", "crossref").Logger(),
	}
}

// Kind returns the provider identifier used for cache keys and metrics.
func (c *Client) Kind() domain.ProviderKind {
	return domain.ProviderCrossref
}

// Fetch retrieves Crossref metadata for one DOI. The DOI is cleaned of its
// canonical URL prefix before the request is constructed. Failures yield the
// zero payload; only context cancellation is propagated as an error.
func (c *Client) Fetch(ctx context.Context, doi string) (*domain.CrossrefMetadata, error) {
	doi = identifier.CleanDOI(doi)
	if doi == "" {
		return &domain.CrossrefMetadata{}, nil
	}

	var resp workResponse
	if err := c.httpClient.GetJSON(ctx, c.config.BaseURL+"/works/"+doi, &resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn().Err(err).Str("doi", doi).Msg("crossref fetch failed, returning empty payload")
		return &domain.CrossrefMetadata{}, nil
	}

	funders := make([]string, 0, len(resp.Message.Funder))
	for _, f := range resp.Message.Funder {
		funders = append(funders, f.Name)
	}

	return &domain.CrossrefMetadata{
		Publisher:     resp.Message.Publisher,
		Subjects:      resp.Message.Subject,
		Funders:       funders,
		CitationCount: resp.Message.IsReferencedByCount,
	}, nil
}
