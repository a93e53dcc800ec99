package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/publication-metadata-service/internal/domain"
	"github.com/helixir/publication-metadata-service/internal/identifier"
	"github.com/helixir/publication-metadata-service/internal/providers"
)

// newTestClient creates a client configured for testing with the given server URL.
func newTestClient(serverURL string, pageSize int) *Client {
	cfg := Config{
		BaseURL:   serverURL,
		Email:     "test@example.com",
		Timeout:   5 * time.Second,
		RateLimit: 1000, // High rate for testing
		BurstSize: 1000,
		PageSize:  pageSize,
	}

	httpClient := providers.NewHTTPClient(providers.HTTPClientConfig{
		Timeout:    cfg.Timeout,
		RateLimit:  cfg.RateLimit,
		BurstSize:  cfg.BurstSize,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		UserAgent:  "TestClient/1.0",
	})

	return NewWithHTTPClient(cfg, httpClient, zerolog.Nop())
}

// makeWorks builds n minimal works with sequential IDs starting at offset.
func makeWorks(offset, n int) []Work {
	works := make([]Work, n)
	for i := range works {
		works[i] = Work{
			ID:          fmt.Sprintf("https://openalex.org/W%d", offset+i),
			DOI:         fmt.Sprintf("https://doi.org/10.1000/%d", offset+i),
			DisplayName: fmt.Sprintf("Work %d", offset+i),
		}
	}
	return works
}

func TestFetchWorks_CursorPagination(t *testing.T) {
	// Three pages: 25, 25, 10 results.
	pages := map[string]ListResponse{
		"*":  {Meta: Meta{NextCursor: "c2"}, Results: makeWorks(0, 25)},
		"c2": {Meta: Meta{NextCursor: "c3"}, Results: makeWorks(25, 25)},
		"c3": {Meta: Meta{NextCursor: "c4"}, Results: makeWorks(50, 10)},
		"c4": {Meta: Meta{}, Results: nil},
	}

	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("cursor")
		requests = append(requests, cursor)
		resp, ok := pages[cursor]
		require.True(t, ok, "unexpected cursor %q", cursor)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 25)
	works, err := client.FetchWorks(context.Background(), identifier.Key{Kind: identifier.KindORCID, Value: "0000-0002-1825-0097"}, 0)
	require.NoError(t, err)

	assert.Len(t, works, 60)
	assert.Equal(t, []string{"*", "c2", "c3", "c4"}, requests, "pagination follows cursors until an empty page")
	assert.Equal(t, "W0", works[0].ID, "URL prefix stripped")
	assert.Equal(t, "10.1000/59", works[59].DOI)
}

func TestFetchWorks_MaxResultsTruncatesPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ListResponse{Meta: Meta{NextCursor: "more"}, Results: makeWorks(0, 25)}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 25)
	works, err := client.FetchWorks(context.Background(), identifier.Key{Kind: identifier.KindQuery, Value: "crispr"}, 30)
	require.NoError(t, err)

	assert.Len(t, works, 30, "second page truncated at the cap")
}

func TestFetchWorks_FirstPageFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 25)
	_, err := client.FetchWorks(context.Background(), identifier.Key{Kind: identifier.KindQuery, Value: "crispr"}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestFetchWorks_MidPaginationFailureReturnsPartial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cursor") != "*" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		resp := ListResponse{Meta: Meta{NextCursor: "c2"}, Results: makeWorks(0, 25)}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 25)
	works, err := client.FetchWorks(context.Background(), identifier.Key{Kind: identifier.KindQuery, Value: "crispr"}, 0)
	require.NoError(t, err, "partial results are not an error")
	assert.Len(t, works, 25)
}

func TestFetchWorks_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ListResponse{Meta: Meta{NextCursor: "c2"}, Results: makeWorks(0, 25)}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL, 25)
	_, err := client.FetchWorks(ctx, identifier.Key{Kind: identifier.KindQuery, Value: "crispr"}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchWorks_ORCIDUsesAuthorFilter(t *testing.T) {
	var filter, search string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter = r.URL.Query().Get("filter")
		search = r.URL.Query().Get("search")
		require.NoError(t, json.NewEncoder(w).Encode(ListResponse{}))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 25)
	_, err := client.FetchWorks(context.Background(), identifier.Key{Kind: identifier.KindORCID, Value: "0000-0002-1825-0097"}, 0)
	require.NoError(t, err)

	assert.Equal(t, "author.orcid:0000-0002-1825-0097", filter)
	assert.Empty(t, search)
}

func TestFetchWorks_QueryUsesSearchParam(t *testing.T) {
	var filter, search string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter = r.URL.Query().Get("filter")
		search = r.URL.Query().Get("search")
		require.NoError(t, json.NewEncoder(w).Encode(ListResponse{}))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 25)
	_, err := client.FetchWorks(context.Background(), identifier.Key{Kind: identifier.KindQuery, Value: "genome editing"}, 0)
	require.NoError(t, err)

	assert.Equal(t, "genome editing", search)
	assert.Empty(t, filter)
}

func TestGetByDOI_Found(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "doi:10.1038/nature12373", r.URL.Query().Get("filter"))
		resp := ListResponse{Results: []Work{{
			ID:          "https://openalex.org/W2741809807",
			DOI:         "https://doi.org/10.1038/nature12373",
			DisplayName: "CRISPR-Cas Systems",
		}}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 25)
	work, err := client.GetByDOI(context.Background(), "https://doi.org/10.1038/nature12373")
	require.NoError(t, err)
	require.NotNil(t, work)
	assert.Equal(t, "W2741809807", work.ID)
}

func TestGetByDOI_Miss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(ListResponse{}))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 25)
	work, err := client.GetByDOI(context.Background(), "10.1000/unknown")
	require.NoError(t, err)
	assert.Nil(t, work)
}

func TestWorkToRecord(t *testing.T) {
	work := Work{
		ID:              "https://openalex.org/W1",
		DOI:             "https://doi.org/10.1000/1",
		DisplayName:     "Display Title",
		Title:           "Short Title",
		PublicationYear: 2023,
		PublicationDate: "2023-01-15",
		Type:            "article",
		Language:        "en",
		CitedByCount:    42,
		Authorships: []Authorship{
			{
				AuthorPosition:  "first",
				IsCorresponding: true,
				Author:          AuthorInfo{DisplayName: "John Smith"},
				Countries:       []string{"US"},
				Institutions: []Institution{
					{DisplayName: "MIT", CountryCode: "US", Type: "education"},
				},
			},
		},
		PrimaryLocation: &Location{Source: &Source{DisplayName: "Nature"}},
		OpenAccess:      &OpenAccess{IsOA: true, OAStatus: "gold"},
		CountsByYear:    []YearCount{{Year: 2023, CitedByCount: 42}},
		Keywords:        []Tag{{DisplayName: "CRISPR"}},
		Mesh:            []Mesh{{DescriptorName: "Gene Editing"}},
		Concepts:        []Tag{{DisplayName: "Biology"}},
		Grants:          []Grant{{FunderDisplayName: "NIH"}},
		IndexedIn:       []string{"crossref", "pubmed"},
	}

	record := workToRecord(&work)

	assert.Equal(t, "W1", record.ID)
	assert.Equal(t, "10.1000/1", record.DOI)
	assert.Equal(t, "Display Title", record.Title, "display_name preferred over title")
	assert.Equal(t, "Nature", record.Journal)
	assert.Equal(t, "gold", record.OpenAccessStatus)
	assert.Equal(t, []string{"CRISPR"}, record.Keywords)
	assert.Equal(t, []string{"Gene Editing"}, record.MeshDescriptors)
	assert.Equal(t, []string{"NIH"}, record.GrantFunders)
	require.Len(t, record.Authorships, 1)
	assert.Equal(t, domain.PositionFirst, record.Authorships[0].Position)
	assert.True(t, record.Authorships[0].IsCorresponding)
	require.Len(t, record.Authorships[0].Institutions, 1)
	assert.Equal(t, "MIT", record.Authorships[0].Institutions[0].DisplayName)
}

func TestWorkToRecord_TitleFallback(t *testing.T) {
	record := workToRecord(&Work{Title: "Only Title"})
	assert.Equal(t, "Only Title", record.Title)
}
