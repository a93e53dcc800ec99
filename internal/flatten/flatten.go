// Package flatten projects one work record plus its enrichment payloads
// into a flat mapping of named fields, ready for table assembly.
//
// Flattening is a pure function of its inputs and the static country
// reference table: no I/O, no shared state.
package flatten

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/helixir/publication-metadata-service/internal/domain"
)

// Field names for the flat record. The order of BaseColumns is the
// canonical static column order of the assembled table.
const (
	ColID              = "OpenAlex ID"
	ColDOI             = "OpenAlex DOI"
	ColTitle           = "OpenAlex Title"
	ColAbstract        = "OpenAlex Abstract"
	ColPublicationYear = "OpenAlex Publication Year"
	ColPublicationDate = "OpenAlex Publication Date"

	ColAuthors              = "OpenAlex Authors"
	ColFirstAuthors         = "OpenAlex First Authors"
	ColLastAuthors          = "OpenAlex Last Authors"
	ColCorrespondingAuthors = "OpenAlex Corresponding Authors"

	ColInstitutions         = "OpenAlex Institutions"
	ColInstitutionsType     = "OpenAlex Institutions Type"
	ColFirstInstitutions    = "OpenAlex First Authors Institutions Countries"
	ColLastInstitutions     = "OpenAlex Last Authors Institutions Countries"
	ColCorrInstitutions     = "OpenAlex Corresponding Authors Institutions Countries"
	ColInstitutionsDistinct = "OpenAlex Institutions Distinct Count"

	ColCountries             = "OpenAlex Countries"
	ColCountriesNames        = "OpenAlex Countries Names"
	ColCountriesRegions      = "OpenAlex Countries Regions"
	ColCountriesIncome       = "OpenAlex Countries Income Groups"
	ColFirstCountries        = "OpenAlex First Authors Countries"
	ColFirstCountriesNames   = "OpenAlex First Authors Countries Names"
	ColFirstCountriesRegions = "OpenAlex First Authors Countries Regions"
	ColFirstCountriesIncome  = "OpenAlex First Authors Countries Income Groups"
	ColLastCountries         = "OpenAlex Last Authors Countries"
	ColLastCountriesNames    = "OpenAlex Last Authors Countries Names"
	ColLastCountriesRegions  = "OpenAlex Last Authors Countries Regions"
	ColLastCountriesIncome   = "OpenAlex Last Authors Countries Income Groups"
	ColCorrCountries         = "OpenAlex Corresponding Authors Countries"
	ColCorrCountriesNames    = "OpenAlex Corresponding Authors Countries Names"
	ColCorrCountriesRegions  = "OpenAlex Corresponding Authors Countries Regions"
	ColCorrCountriesIncome   = "OpenAlex Corresponding Authors Countries Income Groups"
	ColCountriesDistinct     = "OpenAlex Countries Distinct Count"

	ColJournal      = "OpenAlex Journal"
	ColKeywords     = "OpenAlex Keywords"
	ColMesh         = "OpenAlex Mesh"
	ColConcepts     = "OpenAlex Concepts"
	ColSDGs         = "OpenAlex Sustainable Development Goals"
	ColCitedByCount = "OpenAlex Cited by Count"
	ColType         = "OpenAlex Publication Type"
	ColIndexedIn    = "OpenAlex Indexed In"
	ColLanguage     = "OpenAlex Language"
	ColOAStatus     = "OpenAlex Open Access Status"
	ColGrants       = "OpenAlex Grants"

	ColCrossrefPublisher = "Crossref Publisher"
	ColCrossrefSubject   = "Crossref Subject"
	ColCrossrefFunders   = "Crossref Funders"
	ColCrossrefCitations = "Crossref Citation Count"

	ColAltmetricScore     = "Altmetric Score"
	ColAltmetricReadCount = "Altmetric Read Count"
	ColAltmetricImage     = "Altmetric Image"
	ColAltmetricURL       = "Altmetric URL"
)

// unknownCountry marks an authorship with no country attribution in the
// per-role country fields.
const unknownCountry = "Unknown"

// BaseColumns is the canonical order of the static OpenAlex-derived columns.
var BaseColumns = []string{
	ColID, ColDOI, ColTitle, ColAbstract,
	ColPublicationYear, ColPublicationDate,
	ColAuthors, ColFirstAuthors, ColLastAuthors, ColCorrespondingAuthors,
	ColInstitutions, ColInstitutionsType,
	ColFirstInstitutions, ColLastInstitutions, ColCorrInstitutions,
	ColInstitutionsDistinct,
	ColCountries, ColCountriesNames, ColCountriesRegions, ColCountriesIncome,
	ColFirstCountries, ColFirstCountriesNames, ColFirstCountriesRegions, ColFirstCountriesIncome,
	ColLastCountries, ColLastCountriesNames, ColLastCountriesRegions, ColLastCountriesIncome,
	ColCorrCountries, ColCorrCountriesNames, ColCorrCountriesRegions, ColCorrCountriesIncome,
	ColCountriesDistinct,
	ColJournal, ColKeywords, ColMesh, ColConcepts, ColSDGs,
	ColCitedByCount, ColType, ColIndexedIn, ColLanguage, ColOAStatus, ColGrants,
}

// CrossrefColumns are appended to the schema when Crossref enrichment is
// toggled on for the batch.
var CrossrefColumns = []string{
	ColCrossrefPublisher, ColCrossrefSubject, ColCrossrefFunders, ColCrossrefCitations,
}

// AltmetricColumns are appended to the schema when Altmetric enrichment is
// toggled on for the batch.
var AltmetricColumns = []string{
	ColAltmetricScore, ColAltmetricReadCount, ColAltmetricImage, ColAltmetricURL,
}

// CitationsColumn names the dynamic per-year citation column for a year.
func CitationsColumn(year int) string {
	return fmt.Sprintf("Citations %d", year)
}

// FlatRecord is one fully flattened publication row. Fields holds the named
// values; Years lists the citation years observed for this record in source
// order, so the assembler can build dynamic columns in first-seen order.
type FlatRecord struct {
	Fields map[string]string
	Years  []int
}

// Flatten projects a work record and its enrichment payloads into a
// FlatRecord. Enrichment fields are emitted only for toggled-on providers;
// a missing payload produces empty values, never missing keys for rows in
// the same batch. The one field that may be absent per record is the
// abstract: an empty inverted index yields no abstract field at all.
func Flatten(work *domain.WorkRecord, enr domain.Enrichments, toggles domain.EnrichmentToggles) FlatRecord {
	fields := make(map[string]string, len(BaseColumns)+len(work.CountsByYear))

	fields[ColID] = work.ID
	fields[ColDOI] = work.DOI
	fields[ColTitle] = work.Title
	if abstract := ReconstructAbstract(work.AbstractInvertedIndex); abstract != "" {
		fields[ColAbstract] = abstract
	}
	fields[ColPublicationYear] = itoaNonZero(work.PublicationYear)
	fields[ColPublicationDate] = work.PublicationDate

	flattenAuthorRoles(work, fields)
	flattenInstitutions(work, fields)
	flattenCountries(work, fields)

	fields[ColInstitutionsDistinct] = strconv.Itoa(work.InstitutionsDistinctCount)
	fields[ColCountriesDistinct] = strconv.Itoa(work.CountriesDistinctCount)

	fields[ColJournal] = work.Journal
	fields[ColKeywords] = strings.Join(work.Keywords, ", ")
	fields[ColMesh] = strings.Join(work.MeshDescriptors, ", ")
	fields[ColConcepts] = strings.Join(work.Concepts, ", ")
	fields[ColSDGs] = strings.Join(work.SustainableDevelopmentGoals, ", ")
	fields[ColCitedByCount] = strconv.Itoa(work.CitedByCount)
	fields[ColType] = work.Type
	fields[ColIndexedIn] = strings.Join(work.IndexedIn, ", ")
	fields[ColLanguage] = work.Language
	fields[ColOAStatus] = work.OpenAccessStatus
	fields[ColGrants] = strings.Join(work.GrantFunders, ", ")

	years := make([]int, 0, len(work.CountsByYear))
	for _, yc := range work.CountsByYear {
		fields[CitationsColumn(yc.Year)] = strconv.Itoa(yc.CitedByCount)
		years = append(years, yc.Year)
	}

	if toggles.Crossref {
		flattenCrossref(enr.Crossref, fields)
	}
	if toggles.Altmetric {
		flattenAltmetric(enr.Altmetric, fields)
	}

	return FlatRecord{Fields: fields, Years: years}
}

// ReconstructAbstract rebuilds the abstract text from the inverted index
// mapping words to position lists. Words are emitted in ascending position
// order joined by single spaces. An absent or empty index yields "".
func ReconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	const maxAbstractWords = 100_000
	totalPairs := 0
	for _, positions := range invertedIndex {
		totalPairs += len(positions)
	}
	// Guard against malicious payloads with excessive position entries.
	if totalPairs > maxAbstractWords {
		return ""
	}

	pairs := make([]posWord, 0, totalPairs)
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	var builder strings.Builder
	builder.Grow(totalPairs * 7)
	for i, pair := range pairs {
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(pair.word)
	}

	return builder.String()
}

// flattenAuthorRoles fills the author name fields. Role buckets are
// selected by the position marker and corresponding flag, never by array
// index; zero or multiple matches per bucket are both valid.
func flattenAuthorRoles(work *domain.WorkRecord, fields map[string]string) {
	all := make([]string, 0, len(work.Authorships))
	var first, last, corresponding []string

	for _, a := range work.Authorships {
		name := a.AuthorName
		if name == "" {
			name = "Unknown Author"
		}
		all = append(all, name)
		if a.Position == domain.PositionFirst {
			first = append(first, name)
		}
		if a.Position == domain.PositionLast {
			last = append(last, name)
		}
		if a.IsCorresponding {
			corresponding = append(corresponding, name)
		}
	}

	fields[ColAuthors] = strings.Join(all, ", ")
	fields[ColFirstAuthors] = strings.Join(first, ", ")
	fields[ColLastAuthors] = strings.Join(last, ", ")
	fields[ColCorrespondingAuthors] = strings.Join(corresponding, ", ")
}

// flattenInstitutions fills the institution aggregation fields. Each bucket
// collects "{name} ({country})" mentions across matching authorships and
// deduplicates with set semantics before joining.
func flattenInstitutions(work *domain.WorkRecord, fields map[string]string) {
	allCountry := mapset.NewThreadUnsafeSet[string]()
	allType := mapset.NewThreadUnsafeSet[string]()
	firstCountry := mapset.NewThreadUnsafeSet[string]()
	lastCountry := mapset.NewThreadUnsafeSet[string]()
	corrCountry := mapset.NewThreadUnsafeSet[string]()

	for _, a := range work.Authorships {
		for _, inst := range a.Institutions {
			withCountry := fmt.Sprintf("%s (%s)", inst.DisplayName, inst.CountryCode)
			allCountry.Add(withCountry)
			allType.Add(fmt.Sprintf("%s (%s)", inst.DisplayName, inst.Type))
			if a.Position == domain.PositionFirst {
				firstCountry.Add(withCountry)
			}
			if a.Position == domain.PositionLast {
				lastCountry.Add(withCountry)
			}
			if a.IsCorresponding {
				corrCountry.Add(withCountry)
			}
		}
	}

	fields[ColInstitutions] = joinSet(allCountry)
	fields[ColInstitutionsType] = joinSet(allType)
	fields[ColFirstInstitutions] = joinSet(firstCountry)
	fields[ColLastInstitutions] = joinSet(lastCountry)
	fields[ColCorrInstitutions] = joinSet(corrCountry)
}

// flattenCountries fills the country-code fields and their three derived
// display fields (name, region, income group), positionally aligned with
// the code list. Unknown codes resolve to empty display values while the
// code itself passes through unchanged.
func flattenCountries(work *domain.WorkRecord, fields map[string]string) {
	allSet := mapset.NewThreadUnsafeSet[string]()
	var first, last, corresponding []string

	for _, a := range work.Authorships {
		for _, code := range a.Countries {
			allSet.Add(code)
		}
		leading := unknownCountry
		if len(a.Countries) > 0 {
			leading = a.Countries[0]
		}
		if a.Position == domain.PositionFirst {
			first = append(first, leading)
		}
		if a.Position == domain.PositionLast {
			last = append(last, leading)
		}
		if a.IsCorresponding {
			corresponding = append(corresponding, leading)
		}
	}

	all := allSet.ToSlice()
	sort.Strings(all)

	writeCountryFields(fields, all, ColCountries, ColCountriesNames, ColCountriesRegions, ColCountriesIncome)
	writeCountryFields(fields, first, ColFirstCountries, ColFirstCountriesNames, ColFirstCountriesRegions, ColFirstCountriesIncome)
	writeCountryFields(fields, last, ColLastCountries, ColLastCountriesNames, ColLastCountriesRegions, ColLastCountriesIncome)
	writeCountryFields(fields, corresponding, ColCorrCountries, ColCorrCountriesNames, ColCorrCountriesRegions, ColCorrCountriesIncome)
}

// writeCountryFields writes one code list plus its derived display fields.
func writeCountryFields(fields map[string]string, codes []string, codeCol, nameCol, regionCol, incomeCol string) {
	names := make([]string, len(codes))
	regions := make([]string, len(codes))
	incomes := make([]string, len(codes))
	for i, code := range codes {
		info := LookupCountry(code)
		names[i] = info.Name
		regions[i] = info.Region
		incomes[i] = info.IncomeGroup
	}

	fields[codeCol] = strings.Join(codes, ", ")
	fields[nameCol] = strings.Join(names, ", ")
	fields[regionCol] = strings.Join(regions, ", ")
	fields[incomeCol] = strings.Join(incomes, ", ")
}

// flattenCrossref fills the Crossref columns. A nil payload counts as zero
// data, matching a failed or skipped enrichment fetch.
func flattenCrossref(meta *domain.CrossrefMetadata, fields map[string]string) {
	if meta == nil {
		meta = &domain.CrossrefMetadata{}
	}
	fields[ColCrossrefPublisher] = meta.Publisher
	fields[ColCrossrefSubject] = strings.Join(meta.Subjects, ", ")
	fields[ColCrossrefFunders] = strings.Join(meta.Funders, ", ")
	fields[ColCrossrefCitations] = strconv.Itoa(meta.CitationCount)
}

// flattenAltmetric fills the Altmetric columns. Works Altmetric has never
// seen (or failed fetches) render entirely empty, including the score.
func flattenAltmetric(summary *domain.AltmetricSummary, fields map[string]string) {
	if summary == nil || !summary.Found {
		fields[ColAltmetricScore] = ""
		fields[ColAltmetricReadCount] = ""
		fields[ColAltmetricImage] = ""
		fields[ColAltmetricURL] = ""
		return
	}
	fields[ColAltmetricScore] = strconv.FormatFloat(summary.Score, 'f', -1, 64)
	fields[ColAltmetricReadCount] = strconv.Itoa(summary.ReadersCount)
	fields[ColAltmetricImage] = summary.ImageSmall
	fields[ColAltmetricURL] = summary.DetailsURL
}

// joinSet renders a set as a sorted comma-separated string. Sorting is for
// output determinism only; set membership order carries no meaning.
func joinSet(set mapset.Set[string]) string {
	items := set.ToSlice()
	sort.Strings(items)
	return strings.Join(items, ", ")
}

// itoaNonZero renders a year-like int, leaving zero (unknown) empty.
func itoaNonZero(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
