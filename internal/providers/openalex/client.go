package openalex

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/helixir/publication-metadata-service/internal/domain"
	"github.com/helixir/publication-metadata-service/internal/identifier"
	"github.com/helixir/publication-metadata-service/internal/providers"
)

const (
	// DefaultBaseURL is the default OpenAlex API base URL.
	DefaultBaseURL = "https://api.openalex.org"

	// DefaultRateLimit is the default rate limit for requests per second.
	// OpenAlex polite pool (with email) allows higher rates.
	DefaultRateLimit = 10.0

	// DefaultBurstSize is the default burst size for rate limiting.
	DefaultBurstSize = 10

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultPageSize is the default page size for cursor pagination.
	// OpenAlex caps per-page at 200.
	DefaultPageSize = 25

	// cursorStart is the sentinel cursor for the first page.
	cursorStart = "*"
)

// Config holds configuration for the OpenAlex client.
type Config struct {
	// BaseURL is the OpenAlex API base URL.
	// Defaults to https://api.openalex.org
	BaseURL string

	// Email is the contact email for the polite pool.
	// Providing an email grants access to higher rate limits.
	Email string

	// Timeout is the request timeout. Defaults to 30 seconds.
	Timeout time.Duration

	// RateLimit is the maximum requests per second. The limiter also acts
	// as the politeness delay between successive pagination requests.
	RateLimit float64

	// BurstSize is the maximum burst of requests allowed.
	BurstSize int

	// PageSize is the fixed page size used during cursor pagination.
	PageSize int
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.BurstSize == 0 {
		c.BurstSize = DefaultBurstSize
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.PageSize > 200 {
		c.PageSize = 200 // OpenAlex API limit
	}
}

// Client fetches work records from OpenAlex.
type Client struct {
	config     Config
	httpClient *providers.HTTPClient
	logger     zerolog.Logger
}

// New creates a new OpenAlex client with the given configuration.
func New(cfg Config, logger zerolog.Logger) *Client {
	cfg.applyDefaults()

	httpClient := providers.NewHTTPClient(providers.HTTPClientConfig{
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		BurstSize: cfg.BurstSize,
		UserAgent: "Helixir-PublicationMetadata/1.0 (mailto:" + cfg.Email + ")",
	})

	return NewWithHTTPClient(cfg, httpClient, logger)
}

// NewWithHTTPClient creates a new OpenAlex client with a custom HTTP client.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *providers.HTTPClient, logger zerolog.Logger) *Client {
	cfg.applyDefaults()

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		logger:     logger.With().Str("provider", "openalex").Logger(),
	}
}

// FetchWorks retrieves the full set of works matching the given key,
// transparently paginating with the cursor protocol until exhaustion or
// maxResults.
//
// Pagination halts when a page returns zero results, the accumulated count
// reaches maxResults, or the response supplies no further cursor. A network
// or decode failure mid-pagination aborts immediately and returns whatever
// was accumulated; the failure is logged but not surfaced unless nothing at
// all was fetched.
func (c *Client) FetchWorks(ctx context.Context, key identifier.Key, maxResults int) ([]domain.WorkRecord, error) {
	works := make([]domain.WorkRecord, 0, c.config.PageSize)
	cursor := cursorStart

	for page := 1; ; page++ {
		pageURL, err := c.buildWorksURL(key, cursor)
		if err != nil {
			return nil, fmt.Errorf("building works URL: %w", err)
		}

		var resp ListResponse
		if err := c.httpClient.GetJSON(ctx, pageURL, &resp); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if len(works) == 0 {
				return nil, upstreamError(err)
			}
			c.logger.Warn().Err(err).Int("page", page).Int("accumulated", len(works)).
				Msg("pagination aborted, returning partial results")
			return works, nil
		}

		if len(resp.Results) == 0 {
			break
		}
		for i := range resp.Results {
			works = append(works, workToRecord(&resp.Results[i]))
		}
		if maxResults > 0 && len(works) >= maxResults {
			works = works[:maxResults]
			break
		}
		if resp.Meta.NextCursor == "" {
			break
		}
		cursor = resp.Meta.NextCursor
	}

	c.logger.Debug().Int("works", len(works)).Str("kind", string(key.Kind)).Msg("works fetched")
	return works, nil
}

// GetByDOI looks up a single work by DOI. A lookup miss returns (nil, nil),
// not an error.
func (c *Client) GetByDOI(ctx context.Context, doi string) (*domain.WorkRecord, error) {
	doi = identifier.CleanDOI(doi)
	if doi == "" {
		return nil, nil
	}

	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	base.Path = "/works"
	query := url.Values{}
	query.Set("filter", "doi:"+doi)
	query.Set("per-page", "1")
	if c.config.Email != "" {
		query.Set("mailto", c.config.Email)
	}
	base.RawQuery = query.Encode()

	var resp ListResponse
	if err := c.httpClient.GetJSON(ctx, base.String(), &resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, upstreamError(err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}

	record := workToRecord(&resp.Results[0])
	return &record, nil
}

// upstreamError wraps a fetch failure as an ExternalAPIError chained to the
// upstream-unavailable sentinel, carrying the HTTP status when one exists.
func upstreamError(err error) error {
	status := 0
	var se *providers.StatusError
	if errors.As(err, &se) {
		status = se.StatusCode
	}
	return domain.NewExternalAPIError("OpenAlex", status, err.Error(), domain.ErrUpstreamUnavailable)
}

// buildWorksURL constructs the paginated works URL for one page.
func (c *Client) buildWorksURL(key identifier.Key, cursor string) (string, error) {
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	base.Path = "/works"

	query := url.Values{}
	switch key.Kind {
	case identifier.KindORCID:
		query.Set("filter", "author.orcid:"+key.Value)
	default:
		query.Set("search", key.Value)
	}
	query.Set("per-page", strconv.Itoa(c.config.PageSize))
	query.Set("cursor", cursor)
	if c.config.Email != "" {
		query.Set("mailto", c.config.Email)
	}

	base.RawQuery = query.Encode()
	return base.String(), nil
}

// workToRecord converts an OpenAlex work to a domain WorkRecord,
// stripping canonical URL prefixes from the identifiers.
func workToRecord(work *Work) domain.WorkRecord {
	title := work.DisplayName
	if title == "" {
		title = work.Title
	}

	var journal string
	if work.PrimaryLocation != nil && work.PrimaryLocation.Source != nil {
		journal = work.PrimaryLocation.Source.DisplayName
	}

	var oaStatus string
	if work.OpenAccess != nil {
		oaStatus = work.OpenAccess.OAStatus
	}

	authorships := make([]domain.Authorship, 0, len(work.Authorships))
	for _, a := range work.Authorships {
		institutions := make([]domain.Institution, 0, len(a.Institutions))
		for _, inst := range a.Institutions {
			institutions = append(institutions, domain.Institution{
				DisplayName: inst.DisplayName,
				CountryCode: inst.CountryCode,
				Type:        inst.Type,
			})
		}
		authorships = append(authorships, domain.Authorship{
			AuthorName:      a.Author.DisplayName,
			Position:        a.AuthorPosition,
			IsCorresponding: a.IsCorresponding,
			Countries:       a.Countries,
			Institutions:    institutions,
		})
	}

	counts := make([]domain.YearCount, 0, len(work.CountsByYear))
	for _, yc := range work.CountsByYear {
		counts = append(counts, domain.YearCount{Year: yc.Year, CitedByCount: yc.CitedByCount})
	}

	return domain.WorkRecord{
		ID:                          identifier.CleanWorkID(work.ID),
		DOI:                         identifier.CleanDOI(work.DOI),
		Title:                       title,
		PublicationYear:             work.PublicationYear,
		PublicationDate:             work.PublicationDate,
		Type:                        work.Type,
		Language:                    work.Language,
		Authorships:                 authorships,
		Journal:                     journal,
		CitedByCount:                work.CitedByCount,
		CountsByYear:                counts,
		Keywords:                    tagNames(work.Keywords),
		MeshDescriptors:             meshNames(work.Mesh),
		Concepts:                    tagNames(work.Concepts),
		SustainableDevelopmentGoals: tagNames(work.SustainableDevelopmentGoals),
		OpenAccessStatus:            oaStatus,
		GrantFunders:                grantFunders(work.Grants),
		IndexedIn:                   work.IndexedIn,
		InstitutionsDistinctCount:   work.InstitutionsDistinctCount,
		CountriesDistinctCount:      work.CountriesDistinctCount,
		AbstractInvertedIndex:       work.AbstractInvertedIndex,
	}
}

func tagNames(tags []Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.DisplayName)
	}
	return names
}

func meshNames(mesh []Mesh) []string {
	if len(mesh) == 0 {
		return nil
	}
	names := make([]string, 0, len(mesh))
	for _, m := range mesh {
		names = append(names, m.DescriptorName)
	}
	return names
}

func grantFunders(grants []Grant) []string {
	if len(grants) == 0 {
		return nil
	}
	names := make([]string, 0, len(grants))
	for _, g := range grants {
		names = append(names, g.FunderDisplayName)
	}
	return names
}
