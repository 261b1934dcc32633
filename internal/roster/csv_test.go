package roster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profile-scout/internal/model"
)

func TestParsePeople(t *testing.T) {
	csv := `name,organization,profile_url
Jane Doe,Acme,https://www.linkedin.com/in/jane-doe
John Roe,Globex,
,Acme,
Ana Lopez,,`

	people, err := ParsePeople(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, people, 3, "rows without a name are skipped")

	assert.Equal(t, "Jane Doe", people[0].Name)
	assert.Equal(t, "Acme", people[0].Organization)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", people[0].ProfileURL)
	assert.Empty(t, people[1].ProfileURL)
	assert.Empty(t, people[2].Organization)
}

func TestParsePeople_AlternateHeaders(t *testing.T) {
	csv := `Full_Name,Company,LinkedIn_URL
Jane Doe,Acme,https://www.linkedin.com/in/jane-doe`

	people, err := ParsePeople(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Acme", people[0].Organization)
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", people[0].ProfileURL)
}

func TestParsePeople_MissingNameColumn(t *testing.T) {
	csv := `organization,profile_url
Acme,https://www.linkedin.com/in/x`

	_, err := ParsePeople(strings.NewReader(csv))
	require.Error(t, err)
}

func TestParsePeople_EmptyInput(t *testing.T) {
	_, err := ParsePeople(strings.NewReader(""))
	require.Error(t, err)
}

func TestParseKeywords(t *testing.T) {
	csv := `word,category
Kubernetes,skill
AWS,certification
mystery,unknown-category
kubernetes,skill`

	keywords, err := ParseKeywords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, keywords, 3, "case-insensitive duplicates collapse")

	assert.Equal(t, "Kubernetes", keywords[0].Word)
	assert.Equal(t, model.CategorySkill, keywords[0].Category)
	assert.Equal(t, model.CategoryCertification, keywords[1].Category)
	assert.Equal(t, model.CategoryOther, keywords[2].Category, "unknown categories default to other")
	for _, kw := range keywords {
		assert.True(t, kw.Active, "imports start active")
	}
}

func TestParseKeywords_TermHeaderAndMissingCategory(t *testing.T) {
	csv := `term
golang
terraform`

	keywords, err := ParseKeywords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, keywords, 2)
	assert.Equal(t, model.CategoryOther, keywords[0].Category)
}

func TestParseKeywords_MissingWordColumn(t *testing.T) {
	csv := `category
skill`

	_, err := ParseKeywords(strings.NewReader(csv))
	require.Error(t, err)
}
