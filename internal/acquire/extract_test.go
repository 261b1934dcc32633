package acquire

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/profile-scout/internal/model"
)

const richProfileHTML = `<html>
<head>
<title>Jane Doe - Senior Engineer | LinkedIn</title>
<meta name="description" content="Jane Doe - Senior Engineer at Acme. Distributed systems specialist.">
</head>
<body><main>
<h1 class="top-card-layout__title">Jane Doe</h1>
<h2 class="top-card-layout__headline">Senior Software Engineer at Acme Corporation</h2>
<section class="experience-section">
Senior Software Engineer at Acme Corporation, 2019 to present. Leads the platform team.
</section>
<section class="education-section">
B.S. Computer Science, State University, 2012 to 2016.
</section>
<div class="skill-categories-section">Go, Kubernetes, PostgreSQL, AWS</div>
<p>` + "Jane builds large scale distributed systems. " + `</p>
</main></body></html>`

func TestExtractProfile_StructuredFields(t *testing.T) {
	doc := mustParse(t, richProfileHTML)
	p := extractProfile(doc, 15000)

	assert.Equal(t, "Senior Software Engineer at Acme Corporation", p.Headline)
	assert.Contains(t, p.Experience, "Leads the platform team")
	assert.Contains(t, p.Education, "State University")
	assert.Contains(t, p.Skills, "Kubernetes")
	assert.Contains(t, p.FullText, "distributed systems")
}

func TestExtractProfile_HeadlineFromTitleFallback(t *testing.T) {
	html := `<html>
<head><title>Jane Doe - Senior Engineer | LinkedIn</title></head>
<body><main><p>` + strings.Repeat("Profile content about engineering work. ", 5) + `</p></main></body></html>`
	doc := mustParse(t, html)
	p := extractProfile(doc, 15000)

	assert.Equal(t, "Jane Doe - Senior Engineer", p.Headline)
}

func TestExtractProfile_AboutFromMetaFallback(t *testing.T) {
	html := `<html>
<head>
<title>page</title>
<meta name="description" content="Jane Doe - Senior Engineer at Acme with a decade of experience.">
</head>
<body><main><p>` + strings.Repeat("body text ", 20) + `</p></main></body></html>`
	doc := mustParse(t, html)
	p := extractProfile(doc, 15000)

	assert.Equal(t, "Jane Doe - Senior Engineer at Acme with a decade of experience.", p.About)
	// With no title separator, the headline comes from the meta prefix.
	assert.Equal(t, "Jane Doe", p.Headline)
}

func TestExtractProfile_EmptyPage(t *testing.T) {
	doc := mustParse(t, `<html><head></head><body></body></html>`)
	p := extractProfile(doc, 15000)

	assert.True(t, p.Empty())
}

func TestExtractProfile_FullTextCapped(t *testing.T) {
	html := `<html><body><main>` + strings.Repeat("word ", 2000) + `</main></body></html>`
	doc := mustParse(t, html)
	p := extractProfile(doc, 500)

	assert.Len(t, p.FullText, 500)
}

func TestTruncate_KeepsRuneBoundary(t *testing.T) {
	s := strings.Repeat("é", 300)

	out := truncate(s, 501)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, 500, len(out), "the cut backs up to the previous rune start")

	assert.Equal(t, s, truncate(s, 0), "zero means uncapped")
	assert.Equal(t, s, truncate(s, 600))
}

func TestAssessQuality_Tiers(t *testing.T) {
	long := strings.Repeat("content ", 200)
	medium := strings.Repeat("content ", 30)

	cases := []struct {
		name    string
		profile model.Profile
		want    model.ContentQuality
	}{
		{
			"high needs length and structure",
			model.Profile{Headline: "Engineer", FullText: long},
			model.QualityHigh,
		},
		{
			"medium needs moderate length",
			model.Profile{Headline: "Engineer", FullText: medium},
			model.QualityMedium,
		},
		{
			"long text without structure is low",
			model.Profile{FullText: long},
			model.QualityLow,
		},
		{
			"short structured text is low",
			model.Profile{Headline: "Engineer", FullText: "tiny"},
			model.QualityLow,
		},
		{
			"nothing extracted is none",
			model.Profile{},
			model.QualityNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, assessQuality(tc.profile))
		})
	}
}
