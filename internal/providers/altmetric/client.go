// Package altmetric provides the attention-metrics enrichment client for
// the Altmetric API.
//
// Altmetric answers 404 for works it has never seen mentioned; that is a
// normal "no attention data" outcome, not a failure. Real failures also
// yield an empty payload so enrichment can never abort the batch.
//
// API Documentation: https://api.altmetric.com/
package altmetric

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/publication-metadata-service/internal/domain"
	"github.com/helixir/publication-metadata-service/internal/identifier"
	"github.com/helixir/publication-metadata-service/internal/providers"
)

// DefaultBaseURL is the default Altmetric API base URL.
const DefaultBaseURL = "https://api.altmetric.com"

// Config holds configuration for the Altmetric client.
type Config struct {
	// BaseURL is the Altmetric API base URL. Defaults to https://api.altmetric.com
	BaseURL string

	// Timeout is the request timeout.
	Timeout time.Duration

	// RateLimit is the maximum requests per second. The free tier is
	// limited to 1 req/sec.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	BurstSize int
}

// response holds the fields consumed from an Altmetric DOI lookup.
type response struct {
	Score        float64 `json:"score"`
	ReadersCount int     `json:"readers_count"`
	DetailsURL   string  `json:"details_url"`
	Images       struct {
		Small string `json:"small"`
	} `json:"images"`
}

// Client fetches attention metrics by DOI.
type Client struct {
	config     Config
	httpClient *providers.HTTPClient
	logger     zerolog.Logger
}

// New creates a new Altmetric client.
func New(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	httpClient := providers.NewHTTPClient(providers.HTTPClientConfig{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		BurstSize: cfg.BurstSize,
		UserAgent: "Helixir-PublicationMetadata/1.0",
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
		logger:     logger.With().Str("provider", "altmetric").Logger(),
	}
}

// Kind returns the provider identifier used for cache keys and metrics.
func (c *Client) Kind() domain.ProviderKind {
	return domain.ProviderAltmetric
}

// Fetch retrieves attention metrics for one DOI. The DOI is cleaned of its
// canonical URL prefix before the request is constructed. Failures and
// unknown DOIs yield the zero payload; only context cancellation is
// propagated as an error.
func (c *Client) Fetch(ctx context.Context, doi string) (*domain.AltmetricSummary, error) {
	doi = identifier.CleanDOI(doi)
	if doi == "" {
		return &domain.AltmetricSummary{}, nil
	}

	var resp response
	if err := c.httpClient.GetJSON(ctx, c.config.BaseURL+"/v1/doi/"+doi, &resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var statusErr *providers.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			c.logger.Debug().Str("doi", doi).Msg("no altmetric attention data")
		} else {
			c.logger.Warn().Err(err).Str("doi", doi).Msg("altmetric fetch failed, returning empty payload")
		}
		return &domain.AltmetricSummary{}, nil
	}

	return &domain.AltmetricSummary{
		Score:        resp.Score,
		ReadersCount: resp.ReadersCount,
		ImageSmall:   resp.Images.Small,
		DetailsURL:   resp.DetailsURL,
		Found:        true,
	}, nil
}
