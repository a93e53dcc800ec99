// Package openalex provides the primary work-source client for the
// OpenAlex API.
//
// OpenAlex is a free, open catalog of scholarly works, authors, venues,
// institutions, and concepts. This package resolves a researcher ORCID iD
// or a free-text query into the full set of matching work records using
// cursor-based pagination.
//
// API Documentation: https://docs.openalex.org/
package openalex

// ListResponse represents the top-level response from the works endpoint.
type ListResponse struct {
	Meta    Meta   `json:"meta"`
	Results []Work `json:"results"`
}

// Meta contains result metadata including the pagination cursor.
// An empty NextCursor signals the end of results.
type Meta struct {
	Count      int    `json:"count"`
	DBTime     int    `json:"db_response_time_ms"`
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	NextCursor string `json:"next_cursor"`
}

// Work represents an academic work in OpenAlex.
type Work struct {
	ID              string `json:"id"`
	DOI             string `json:"doi"`
	Title           string `json:"title"`
	DisplayName     string `json:"display_name"`
	PublicationYear int    `json:"publication_year"`
	PublicationDate string `json:"publication_date"`
	Type            string `json:"type"`
	Language        string `json:"language"`
	CitedByCount    int    `json:"cited_by_count"`

	Authorships     []Authorship `json:"authorships"`
	PrimaryLocation *Location    `json:"primary_location"`
	OpenAccess      *OpenAccess  `json:"open_access"`

	CountsByYear []YearCount `json:"counts_by_year"`

	Keywords                    []Tag   `json:"keywords"`
	Mesh                        []Mesh  `json:"mesh"`
	Concepts                    []Tag   `json:"concepts"`
	SustainableDevelopmentGoals []Tag   `json:"sustainable_development_goals"`
	Grants                      []Grant `json:"grants"`

	IndexedIn []string `json:"indexed_in"`

	InstitutionsDistinctCount int `json:"institutions_distinct_count"`
	CountriesDistinctCount    int `json:"countries_distinct_count"`

	// Abstract is stored as an inverted index mapping words to positions.
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`
}

// Authorship represents an author's contribution to a work.
type Authorship struct {
	AuthorPosition  string        `json:"author_position"`
	IsCorresponding bool          `json:"is_corresponding"`
	Author          AuthorInfo    `json:"author"`
	Countries       []string      `json:"countries"`
	Institutions    []Institution `json:"institutions"`
}

// AuthorInfo contains basic author information.
type AuthorInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Orcid       string `json:"orcid"`
}

// Institution represents an academic institution affiliation.
type Institution struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	CountryCode string `json:"country_code"`
	Type        string `json:"type"`
}

// Location represents where a work is available.
type Location struct {
	Source *Source `json:"source"`
}

// Source represents a publication venue (journal, repository, etc.).
type Source struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
}

// OpenAccess contains open access information for a work.
type OpenAccess struct {
	IsOA     bool   `json:"is_oa"`
	OAStatus string `json:"oa_status"`
}

// YearCount is one entry of the per-year citation counts list.
type YearCount struct {
	Year         int `json:"year"`
	CitedByCount int `json:"cited_by_count"`
}

// Tag is a display-named topical tag (keyword, concept, SDG).
type Tag struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Mesh is a MeSH descriptor attached to a work.
type Mesh struct {
	DescriptorName string `json:"descriptor_name"`
}

// Grant is a funding acknowledgement attached to a work.
type Grant struct {
	Funder            string `json:"funder"`
	FunderDisplayName string `json:"funder_display_name"`
}
