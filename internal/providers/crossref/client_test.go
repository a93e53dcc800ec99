package crossref

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/publication-metadata-service/internal/providers"
)

func newTestClient(serverURL string) *Client {
	httpClient := providers.NewHTTPClient(providers.HTTPClientConfig{
		Timeout:    5 * time.Second,
		RateLimit:  1000,
		BurstSize:  1000,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		UserAgent:  "TestClient/1.0",
	})
	return NewWithHTTPClient(Config{BaseURL: serverURL}, httpClient, zerolog.Nop())
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works/10.1038/nature12373", r.URL.Path)
		w.Write([]byte(`{"message": {
			"publisher": "Springer Nature",
			"subject": ["Genetics", "Biotechnology"],
			"is-referenced-by-count": 5231,
			"funder": [{"name": "NIH"}, {"name": "HHMI"}]
		}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	meta, err := client.Fetch(context.Background(), "https://doi.org/10.1038/nature12373")
	require.NoError(t, err)

	assert.Equal(t, "Springer Nature", meta.Publisher)
	assert.Equal(t, []string{"Genetics", "Biotechnology"}, meta.Subjects)
	assert.Equal(t, []string{"NIH", "HHMI"}, meta.Funders)
	assert.Equal(t, 5231, meta.CitationCount)
}

func TestFetch_NotFoundYieldsEmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Resource not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	meta, err := client.Fetch(context.Background(), "10.1000/unknown")
	require.NoError(t, err, "enrichment failures never abort the batch")

	assert.Empty(t, meta.Publisher)
	assert.Empty(t, meta.Subjects)
	assert.Zero(t, meta.CitationCount)
}

func TestFetch_ServerErrorYieldsEmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	meta, err := client.Fetch(context.Background(), "10.1000/1")
	require.NoError(t, err)
	assert.Equal(t, 0, meta.CitationCount)
}

func TestFetch_EmptyDOI(t *testing.T) {
	client := newTestClient("http://unused.invalid")
	meta, err := client.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, meta.Publisher)
}

func TestFetch_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": {}}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL)
	_, err := client.Fetch(ctx, "10.1000/1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
