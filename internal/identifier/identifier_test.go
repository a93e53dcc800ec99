package identifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/publication-metadata-service/internal/domain"
)

func TestNormalize_ValidORCID(t *testing.T) {
	key, err := Normalize("0000-0002-1825-0097")
	require.NoError(t, err)
	assert.Equal(t, KindORCID, key.Kind)
	assert.Equal(t, "0000-0002-1825-0097", key.Value)
}

func TestNormalize_ORCIDWithURLPrefix(t *testing.T) {
	key, err := Normalize("https://orcid.org/0000-0002-1825-0097")
	require.NoError(t, err)
	assert.Equal(t, KindORCID, key.Kind)
	assert.Equal(t, "0000-0002-1825-0097", key.Value)
}

func TestNormalize_ORCIDChecksumX(t *testing.T) {
	key, err := Normalize("0000-0002-1694-233x")
	require.NoError(t, err)
	assert.Equal(t, KindORCID, key.Kind)
	assert.Equal(t, "0000-0002-1694-233X", key.Value, "checksum digit is uppercased")
}

func TestNormalize_MalformedORCID(t *testing.T) {
	cases := []string{
		"0000-0002-1825",           // too few groups
		"0000-0002-1825-00971",     // extra digit
		"0000-0002-1825-009X-0000", // too many groups
		"https://orcid.org/0000-0002-18",
	}
	for _, input := range cases {
		_, err := Normalize(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "input %q", input)
	}
}

func TestNormalize_FreeTextQuery(t *testing.T) {
	key, err := Normalize("  machine learning in genomics ")
	require.NoError(t, err)
	assert.Equal(t, KindQuery, key.Kind)
	assert.Equal(t, "machine learning in genomics", key.Value)
}

func TestNormalize_EmptyInput(t *testing.T) {
	_, err := Normalize("   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestNormalize_Idempotent(t *testing.T) {
	key, err := Normalize("https://orcid.org/0000-0002-1825-0097")
	require.NoError(t, err)

	again, err := Normalize(key.Value)
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestCleanDOI(t *testing.T) {
	cases := map[string]string{
		"https://doi.org/10.1038/nature12373": "10.1038/nature12373",
		"http://doi.org/10.1038/nature12373":  "10.1038/nature12373",
		"doi:10.1038/nature12373":             "10.1038/nature12373",
		"10.1038/nature12373":                 "10.1038/nature12373",
		"  10.1000/xyz  ":                     "10.1000/xyz",
		"":                                    "",
	}
	for input, want := range cases {
		assert.Equal(t, want, CleanDOI(input), "input %q", input)
	}
}

func TestCleanDOI_Idempotent(t *testing.T) {
	cleaned := CleanDOI("https://doi.org/10.1038/nature12373")
	assert.Equal(t, cleaned, CleanDOI(cleaned))
}

func TestCleanWorkID(t *testing.T) {
	assert.Equal(t, "W2741809807", CleanWorkID("https://openalex.org/W2741809807"))
	assert.Equal(t, "W2741809807", CleanWorkID("W2741809807"))
	assert.Equal(t, "", CleanWorkID(""))
}
