// Package domain contains the core types shared across the publication
// metadata pipeline: work records as returned by the primary bibliographic
// source, enrichment payloads from secondary providers, and the error
// taxonomy surfaced to callers.
package domain

// Author position markers as reported by the primary source.
// The position is a closed set; anything else is treated as middle.
const (
	PositionFirst  = "first"
	PositionMiddle = "middle"
	PositionLast   = "last"
)

// WorkRecord is one scholarly publication as returned by the primary source.
// A record with no DOI cannot be enriched by DOI-keyed secondary providers;
// its enrichment fields stay empty rather than producing an error.
type WorkRecord struct {
	// ID is the short OpenAlex work ID (e.g. "W2741809807"), URL prefix stripped.
	ID string

	// DOI is the bare DOI (e.g. "10.1038/nature12373"), URL prefix stripped.
	// May be empty.
	DOI string

	Title           string
	PublicationYear int
	PublicationDate string
	Type            string
	Language        string

	// Authorships are ordered as returned by the source.
	Authorships []Authorship

	// Journal is the display name of the primary location's source venue.
	Journal string

	CitedByCount int

	// CountsByYear holds per-year citation counts in source order
	// (OpenAlex returns them newest-first).
	CountsByYear []YearCount

	Keywords                    []string
	MeshDescriptors             []string
	Concepts                    []string
	SustainableDevelopmentGoals []string

	OpenAccessStatus string
	GrantFunders     []string
	IndexedIn        []string

	InstitutionsDistinctCount int
	CountriesDistinctCount    int

	// AbstractInvertedIndex maps each word to the positions it occupies.
	// Nil or empty means the source supplied no abstract.
	AbstractInvertedIndex map[string][]int
}

// HasDOI reports whether the record carries a primary identifier usable as
// a key into DOI-keyed secondary providers.
func (w *WorkRecord) HasDOI() bool {
	return w.DOI != ""
}

// Authorship is one author's participation in a work.
type Authorship struct {
	AuthorName string

	// Position is one of PositionFirst, PositionMiddle, PositionLast.
	Position string

	// IsCorresponding marks a corresponding author. Upstream payloads send
	// this as a JSON boolean.
	IsCorresponding bool

	// Countries holds ISO alpha-2 country codes attributed to the author.
	Countries []string

	// Institutions are the author's affiliations, in source order.
	Institutions []Institution
}

// Institution is an affiliation mention. Identity is the
// (name, country, type) triplet; duplicate mentions within one work are
// collapsed during flattening.
type Institution struct {
	DisplayName string
	CountryCode string
	Type        string
}

// YearCount is one per-year citation count entry.
type YearCount struct {
	Year         int
	CitedByCount int
}

// ProviderKind identifies a secondary metadata provider.
type ProviderKind string

// Known secondary providers.
const (
	ProviderCrossref  ProviderKind = "crossref"
	ProviderAltmetric ProviderKind = "altmetric"
)

// CrossrefMetadata is the citation-registry enrichment payload for one work.
// The zero value represents "no data" (provider failure or missing DOI).
type CrossrefMetadata struct {
	Publisher     string   `json:"publisher"`
	Subjects      []string `json:"subjects"`
	Funders       []string `json:"funders"`
	CitationCount int      `json:"citation_count"`
}

// AltmetricSummary is the attention-metrics enrichment payload for one work.
// The zero value represents "no data".
type AltmetricSummary struct {
	Score        float64 `json:"score"`
	ReadersCount int     `json:"readers_count"`
	ImageSmall   string  `json:"image_small"`
	DetailsURL   string  `json:"details_url"`

	// Found distinguishes a real zero-score response from an absent payload.
	Found bool `json:"found"`
}

// Enrichments bundles the secondary payloads fetched for one work.
// Nil pointers mean the provider returned nothing (or was never asked).
type Enrichments struct {
	Crossref  *CrossrefMetadata
	Altmetric *AltmetricSummary
}

// EnrichmentToggles selects which secondary providers to consult for a batch.
// The toggles determine the flat schema for the whole batch: a toggled-on
// provider contributes its columns to every row, empty where data is missing.
type EnrichmentToggles struct {
	Crossref  bool `json:"crossref"`
	Altmetric bool `json:"altmetric"`
}
