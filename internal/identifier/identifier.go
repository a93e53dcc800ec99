// Package identifier canonicalizes researcher identifiers and record
// identifiers before they are used as provider request keys.
//
// All functions are pure and idempotent: normalizing an already-normalized
// value returns it unchanged.
package identifier

import (
	"regexp"
	"strings"

	"github.com/helixir/publication-metadata-service/internal/domain"
)

// Canonical URL prefixes used by the providers for record identifiers.
const (
	doiPrefix      = "https://doi.org/"
	workIDPrefix   = "https://openalex.org/"
	orcidPrefix    = "https://orcid.org/"
	orcidAltPrefix = "http://orcid.org/"
)

// orcidPattern is the ORCID iD shape: four groups of four characters
// separated by hyphens, last character may be the X checksum digit.
var orcidPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// orcidLike matches inputs that are clearly an attempt at an ORCID iD
// (digits and hyphens only) but may not satisfy the full pattern.
var orcidLike = regexp.MustCompile(`^[\dXx-]{8,}$`)

// Kind classifies a normalized input.
type Kind string

// Input kinds.
const (
	// KindORCID is a validated researcher ORCID iD.
	KindORCID Kind = "orcid"
	// KindQuery is a free-text search query, passed through unvalidated.
	KindQuery Kind = "query"
)

// Key is a canonicalized pipeline input.
type Key struct {
	Kind  Kind
	Value string
}

// Normalize canonicalizes a raw user input into a Key.
//
// Inputs that look like ORCID iDs (optionally carrying the orcid.org URL
// prefix) are validated against the fixed pattern; a malformed iD fails with
// domain.ErrInvalidInput before any network call. Anything else is treated
// as a search query and passed through unchanged apart from whitespace
// trimming.
func Normalize(raw string) (Key, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Key{}, domain.NewValidationError("input", "must not be empty")
	}

	candidate := strings.TrimPrefix(trimmed, orcidPrefix)
	candidate = strings.TrimPrefix(candidate, orcidAltPrefix)

	if orcidLike.MatchString(candidate) {
		id := strings.ToUpper(candidate)
		if !orcidPattern.MatchString(id) {
			return Key{}, domain.NewValidationError("orcid",
				"must match dddd-dddd-dddd-dddX")
		}
		return Key{Kind: KindORCID, Value: id}, nil
	}

	return Key{Kind: KindQuery, Value: trimmed}, nil
}

// CleanDOI strips the canonical DOI URL prefix. Absence of the prefix
// leaves the value unchanged.
func CleanDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	doi = strings.TrimPrefix(doi, doiPrefix)
	doi = strings.TrimPrefix(doi, "http://doi.org/")
	doi = strings.TrimPrefix(doi, "doi:")
	return strings.TrimSpace(doi)
}

// CleanWorkID strips the canonical OpenAlex URL prefix from a work, author,
// or institution identifier. Absence of the prefix leaves the value
// unchanged.
func CleanWorkID(id string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(id), workIDPrefix))
}
