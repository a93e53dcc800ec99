// Package pipeline orchestrates the publication aggregation flow: it
// normalizes the input identifier, fetches work records from OpenAlex,
// enriches them through the configured providers, and assembles the
// flattened results into a table.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/helixir/publication-metadata-service/internal/cache"
	"github.com/helixir/publication-metadata-service/internal/domain"
	"github.com/helixir/publication-metadata-service/internal/flatten"
	"github.com/helixir/publication-metadata-service/internal/identifier"
	"github.com/helixir/publication-metadata-service/internal/observability"
	"github.com/helixir/publication-metadata-service/internal/table"
)

// DefaultConcurrency bounds the enrichment fan-out when no limit is
// configured.
const DefaultConcurrency = 8

// WorksFetcher retrieves work records for a normalized identifier.
type WorksFetcher interface {
	FetchWorks(ctx context.Context, key identifier.Key, maxResults int) ([]domain.WorkRecord, error)
}

// CrossrefFetcher retrieves Crossref metadata for a DOI.
type CrossrefFetcher interface {
	Fetch(ctx context.Context, doi string) (*domain.CrossrefMetadata, error)
}

// AltmetricFetcher retrieves an Altmetric attention summary for a DOI.
type AltmetricFetcher interface {
	Fetch(ctx context.Context, doi string) (*domain.AltmetricSummary, error)
}

// Request describes a single aggregation run.
type Request struct {
	// Input is the raw user input, either an ORCID iD or a free-text query.
	Input string

	// MaxResults caps the number of works fetched. Zero means the
	// configured default.
	MaxResults int

	// EnrichCrossref enables Crossref enrichment for works with a DOI.
	EnrichCrossref bool

	// EnrichAltmetric enables Altmetric enrichment for works with a DOI.
	EnrichAltmetric bool
}

// Config contains pipeline tuning options.
type Config struct {
	// Concurrency bounds the number of in-flight enrichment lookups.
	Concurrency int

	// DefaultMaxResults is used when a request does not set MaxResults.
	DefaultMaxResults int
}

// Pipeline runs aggregation requests end to end.
type Pipeline struct {
	works     WorksFetcher
	crossref  CrossrefFetcher
	altmetric AltmetricFetcher
	cache     *cache.Cache
	metrics   *observability.Metrics
	logger    zerolog.Logger
	cfg       Config
}

// New creates a Pipeline. The metrics recorder may be nil.
func New(cfg Config, works WorksFetcher, crossref CrossrefFetcher, altmetric AltmetricFetcher, c *cache.Cache, metrics *observability.Metrics, logger zerolog.Logger) *Pipeline {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return &Pipeline{
		works:     works,
		crossref:  crossref,
		altmetric: altmetric,
		cache:     c,
		metrics:   metrics,
		logger:    logger.With().Str("component", "pipeline").Logger(),
		cfg:       cfg,
	}
}

// Run executes an aggregation request and returns the assembled table.
// Works without a DOI are kept in the output but skipped during
// enrichment. Enrichment lookups that come back empty leave their
// columns blank rather than failing the run.
func (p *Pipeline) Run(ctx context.Context, req Request) (*table.Table, error) {
	start := time.Now()
	outcome := "success"
	defer func() {
		if p.metrics != nil {
			p.metrics.RecordPipelineRun(outcome, time.Since(start).Seconds())
		}
	}()

	key, err := identifier.Normalize(req.Input)
	if err != nil {
		outcome = "invalid_input"
		return nil, err
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = p.cfg.DefaultMaxResults
	}

	logger := observability.WithPipelineContext(p.logger, string(key.Kind), key.Value)
	logger.Info().
		Int("max_results", maxResults).
		Bool("crossref", req.EnrichCrossref).
		Bool("altmetric", req.EnrichAltmetric).
		Msg("starting aggregation run")

	works, err := p.works.FetchWorks(ctx, key, maxResults)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = "canceled"
		} else {
			outcome = "upstream_error"
		}
		return nil, err
	}
	if p.metrics != nil {
		p.metrics.RecordWorksFetched(len(works))
	}

	toggles := domain.EnrichmentToggles{
		Crossref:  req.EnrichCrossref,
		Altmetric: req.EnrichAltmetric,
	}

	enrichments, err := p.enrich(ctx, works, toggles)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = "canceled"
			return nil, err
		}
		outcome = "pipeline_error"
		return nil, fmt.Errorf("%w: enrichment: %v", domain.ErrPipelineFailure, err)
	}

	records := make([]flatten.FlatRecord, len(works))
	for i := range works {
		records[i] = flatten.Flatten(&works[i], enrichments[i], toggles)
	}

	tbl := table.Assemble(records, toggles)
	if p.metrics != nil {
		p.metrics.RecordTableRows(tbl.RowCount())
	}
	if tbl.IsEmpty() {
		outcome = "empty"
	}

	logger.Info().
		Int("works", len(works)).
		Int("rows", tbl.RowCount()).
		Dur("elapsed", time.Since(start)).
		Msg("aggregation run complete")

	return tbl, nil
}

// enrich fetches provider metadata for every work with a DOI, bounded by
// the configured concurrency. Results are indexed to preserve work order.
func (p *Pipeline) enrich(ctx context.Context, works []domain.WorkRecord, toggles domain.EnrichmentToggles) ([]domain.Enrichments, error) {
	enrichments := make([]domain.Enrichments, len(works))
	if !toggles.Crossref && !toggles.Altmetric {
		return enrichments, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for i := range works {
		work := &works[i]
		if !work.HasDOI() {
			continue
		}
		doi := identifier.CleanDOI(work.DOI)
		out := &enrichments[i]

		if toggles.Crossref {
			g.Go(func() error {
				meta, err := p.fetchCrossref(gctx, doi)
				if err != nil {
					return err
				}
				out.Crossref = meta
				return nil
			})
		}
		if toggles.Altmetric {
			g.Go(func() error {
				summary, err := p.fetchAltmetric(gctx, doi)
				if err != nil {
					return err
				}
				out.Altmetric = summary
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return enrichments, nil
}

func (p *Pipeline) fetchCrossref(ctx context.Context, doi string) (*domain.CrossrefMetadata, error) {
	meta, err := cache.Memoize(ctx, p.cache, "crossref:"+doi, func(ctx context.Context) (*domain.CrossrefMetadata, error) {
		return p.crossref.Fetch(ctx, doi)
	})
	if err != nil {
		return nil, err
	}
	if p.metrics != nil {
		p.metrics.RecordEnrichment(string(domain.ProviderCrossref), crossrefEmpty(meta))
	}
	return meta, nil
}

func (p *Pipeline) fetchAltmetric(ctx context.Context, doi string) (*domain.AltmetricSummary, error) {
	summary, err := cache.Memoize(ctx, p.cache, "altmetric:"+doi, func(ctx context.Context) (*domain.AltmetricSummary, error) {
		return p.altmetric.Fetch(ctx, doi)
	})
	if err != nil {
		return nil, err
	}
	if p.metrics != nil {
		p.metrics.RecordEnrichment(string(domain.ProviderAltmetric), summary == nil || !summary.Found)
	}
	return summary, nil
}

func crossrefEmpty(meta *domain.CrossrefMetadata) bool {
	if meta == nil {
		return true
	}
	return meta.Publisher == "" && meta.CitationCount == 0 &&
		len(meta.Subjects) == 0 && len(meta.Funders) == 0
}
