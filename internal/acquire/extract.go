package acquire

import (
	"strings"
	"unicode/utf8"

	"github.com/sells-group/profile-scout/internal/htmldoc"
	"github.com/sells-group/profile-scout/internal/model"
)

// fieldStrategy is one ordered attempt at extracting a logical profile
// field. The first strategy yielding text longer than minLen wins; new
// fallback rules are added to the list, not to control flow.
type fieldStrategy struct {
	selectors []string
	minLen    int
	maxLen    int
	// joinAll concatenates every matching node (experience, education,
	// skills) instead of taking the first.
	joinAll bool
	perNode int
}

// LinkedIn's markup shifts between logged-out page generations; each field
// carries selector candidates for the variants seen in the wild.
var fieldStrategies = map[string]fieldStrategy{
	"headline": {
		selectors: []string{
			"h2.top-card-layout__headline",
			".top-card-layout__headline",
			"h1.top-card-layout__title",
			".text-heading-xlarge",
			".pv-text-details__left-panel h1",
		},
		minLen: 5,
		maxLen: 500,
	},
	"about": {
		selectors: []string{
			".core-section-container__content",
			".pv-about-section",
			"section.summary",
			`[data-section="summary"]`,
			".pv-shared-text-with-see-more",
		},
		minLen: 20,
		maxLen: 2000,
	},
	"experience": {
		selectors: []string{
			".experience-section",
			".pv-experience-section",
			`section[data-section="experience"]`,
			"#experience-section",
			".pv-profile-card",
		},
		minLen:  30,
		maxLen:  5000,
		joinAll: true,
		perNode: 1500,
	},
	"education": {
		selectors: []string{
			".education-section",
			".pv-education-section",
			`section[data-section="education"]`,
		},
		minLen:  20,
		maxLen:  2000,
		joinAll: true,
		perNode: 1000,
	},
	"skills": {
		selectors: []string{
			".skill-categories-section",
			".pv-skill-categories-section",
			".pv-skill-category-entity",
		},
		minLen:  10,
		maxLen:  1000,
		joinAll: true,
		perNode: 500,
	},
}

// fullTextSelectors locate the main content area, widest last.
var fullTextSelectors = []string{
	"main",
	".core-rail",
	".scaffold-layout__main",
	"body",
}

// extractProfile pulls structured fields out of a parsed profile page.
func extractProfile(doc htmldoc.Document, maxContentLength int) model.Profile {
	p := model.Profile{
		Headline:   extractField(doc, fieldStrategies["headline"]),
		About:      extractField(doc, fieldStrategies["about"]),
		Experience: extractField(doc, fieldStrategies["experience"]),
		Education:  extractField(doc, fieldStrategies["education"]),
		Skills:     extractField(doc, fieldStrategies["skills"]),
	}

	if p.Headline == "" {
		p.Headline = headlineFromTitle(doc)
	}
	if p.About == "" {
		p.About = aboutFromMeta(doc)
	}
	if p.Headline == "" {
		// Meta descriptions lead with "Name - Headline".
		if desc := aboutFromMeta(doc); strings.Contains(desc, " - ") {
			p.Headline = truncate(strings.TrimSpace(strings.SplitN(desc, " - ", 2)[0]), 500)
		}
	}

	p.FullText = extractFullText(doc, maxContentLength)
	return p
}

// extractField walks the strategy's selector list, first non-trivial text
// wins.
func extractField(doc htmldoc.Document, s fieldStrategy) string {
	if s.joinAll {
		var parts []string
		for _, sel := range s.selectors {
			for _, text := range doc.SelectAllText(sel) {
				if len(text) > s.minLen {
					parts = append(parts, truncate(text, s.perNode))
				}
			}
		}
		return truncate(strings.Join(parts, " | "), s.maxLen)
	}

	for _, sel := range s.selectors {
		if text := doc.SelectText(sel); len(text) > s.minLen {
			return truncate(text, s.maxLen)
		}
	}
	return ""
}

// headlineFromTitle parses "Name - Headline | LinkedIn" page titles.
func headlineFromTitle(doc htmldoc.Document) string {
	title := doc.Title()
	if idx := strings.Index(title, " | "); idx > 0 {
		return truncate(strings.TrimSpace(title[:idx]), 500)
	}
	return ""
}

// aboutFromMeta falls back to description metadata when structural
// selectors fail.
func aboutFromMeta(doc htmldoc.Document) string {
	for _, sel := range []string{`meta[name="description"]`, `meta[property="og:description"]`} {
		if content := doc.Attr(sel, "content"); len(content) > 20 {
			return truncate(content, 2000)
		}
	}
	return ""
}

// extractFullText takes the first main-content candidate with substance.
func extractFullText(doc htmldoc.Document, maxLen int) string {
	for _, sel := range fullTextSelectors {
		if text := doc.SelectText(sel); len(text) > 100 {
			return truncate(text, maxLen)
		}
	}
	return ""
}

// assessQuality tiers extracted content by combined length and field
// presence.
func assessQuality(p model.Profile) model.ContentQuality {
	contentLen := len(p.FullText)
	hasStructured := p.Headline != "" || p.About != "" || p.Experience != ""

	switch {
	case contentLen > 1000 && hasStructured:
		return model.QualityHigh
	case contentLen > 200 && (p.Headline != "" || p.About != ""):
		return model.QualityMedium
	case p.Empty():
		return model.QualityNone
	default:
		return model.QualityLow
	}
}

// truncate caps s at maxLen bytes without splitting a multi-byte rune.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
