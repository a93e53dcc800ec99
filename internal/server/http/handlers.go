package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/helixir/publication-metadata-service/internal/domain"
	"github.com/helixir/publication-metadata-service/internal/observability"
	"github.com/helixir/publication-metadata-service/internal/pipeline"
	"github.com/helixir/publication-metadata-service/internal/table"
)

// Request body and parameter bounds.
const (
	maxInputLength     = 10000
	maxRequestedWorks  = 10000
	maxRequestBodySize = 1 << 20 // 1 MB limit for request bodies
)

// aggregateRequest is the JSON request body for an aggregation run.
type aggregateRequest struct {
	// Input is an ORCID iD or a free-text search query.
	Input string `json:"input" validate:"required"`
	// MaxResults caps the number of works fetched. Zero means the
	// service default.
	MaxResults int `json:"max_results,omitempty" validate:"gte=0"`
	// EnrichCrossref toggles Crossref enrichment (default: true).
	EnrichCrossref *bool `json:"enrich_crossref,omitempty"`
	// EnrichAltmetric toggles Altmetric enrichment (default: true).
	EnrichAltmetric *bool `json:"enrich_altmetric,omitempty"`
}

// aggregateResponse is the JSON response for an aggregation run.
type aggregateResponse struct {
	RowCount int        `json:"row_count"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	Message  string     `json:"message,omitempty"`
}

// aggregatePublications handles POST /publications.
func (s *Server) aggregatePublications(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req aggregateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}

	req.Input = strings.TrimSpace(req.Input)
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}
	if len(req.Input) > maxInputLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("input must be at most %d characters", maxInputLength))
		return
	}
	if req.MaxResults > maxRequestedWorks {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("max_results must be at most %d", maxRequestedWorks))
		return
	}

	tbl, err := s.runAggregation(r.Context(), pipeline.Request{
		Input:           req.Input,
		MaxResults:      req.MaxResults,
		EnrichCrossref:  boolOrTrue(req.EnrichCrossref),
		EnrichAltmetric: boolOrTrue(req.EnrichAltmetric),
	})
	if err != nil {
		s.logRequestError(r.Context(), req.Input, err)
		writeDomainError(w, err)
		return
	}

	resp := aggregateResponse{
		RowCount: tbl.RowCount(),
		Columns:  tbl.Columns,
		Rows:     tbl.Rows,
	}
	if tbl.IsEmpty() {
		resp.Message = "no publications found"
	}
	writeJSON(w, http.StatusOK, resp)
}

// exportPublicationsCSV handles GET /publications/export. It runs the same
// aggregation as the JSON endpoint but streams the table as a CSV
// attachment.
func (s *Server) exportPublicationsCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := strings.TrimSpace(q.Get("input"))
	if input == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}
	if len(input) > maxInputLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("input must be at most %d characters", maxInputLength))
		return
	}

	maxResults := 0
	if raw := q.Get("max_results"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > maxRequestedWorks {
			writeError(w, http.StatusBadRequest, "max_results must be a non-negative integer")
			return
		}
		maxResults = parsed
	}

	tbl, err := s.runAggregation(r.Context(), pipeline.Request{
		Input:           input,
		MaxResults:      maxResults,
		EnrichCrossref:  boolParam(q.Get("crossref"), true),
		EnrichAltmetric: boolParam(q.Get("altmetric"), true),
	})
	if err != nil {
		s.logRequestError(r.Context(), input, err)
		writeDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="publications.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := tbl.WriteCSV(w); err != nil {
		// Headers already sent; nothing left to do but log.
		s.logger.Error().Err(err).Msg("failed to stream CSV export")
	}
}

// runAggregation applies the configured per-request deadline and runs the
// pipeline.
func (s *Server) runAggregation(ctx context.Context, req pipeline.Request) (*table.Table, error) {
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}
	return s.aggregator.Run(ctx, req)
}

func (s *Server) logRequestError(ctx context.Context, input string, err error) {
	logger := observability.WithRequestContext(s.logger, observability.RequestIDFromContext(ctx))
	logger.Error().Err(err).Str("input", input).Msg("aggregation request failed")
}

// writeDomainError maps domain errors to appropriate HTTP status codes and
// writes a JSON error response. Internal error details are not leaked to
// clients.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid input")
		}
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		writeError(w, http.StatusBadGateway, "upstream metadata provider unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "aggregation timed out")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func boolOrTrue(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

// boolParam parses a query-string boolean, falling back to the default for
// absent or malformed values.
func boolParam(raw string, def bool) bool {
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return parsed
}
