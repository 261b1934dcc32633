// Package match finds configured keywords in acquired profile text and
// scores each hit.
package match

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/profile-scout/internal/config"
	"github.com/sells-group/profile-scout/internal/model"
)

// categoryWeights boost confidence by keyword category. Certifications and
// hard skills are stronger signals than generic titles.
var categoryWeights = map[model.KeywordCategory]float64{
	model.CategoryCertification: 0.15,
	model.CategorySkill:         0.10,
	model.CategoryTechnology:    0.10,
	model.CategoryEducation:     0.08,
	model.CategoryTitle:         0.05,
	model.CategoryIndustry:      0.05,
	model.CategoryOther:         0.0,
}

// Result is one keyword's aggregate outcome against one record's text.
type Result struct {
	KeywordID  string                `json:"keyword_id"`
	Word       string                `json:"word"`
	Category   model.KeywordCategory `json:"category"`
	Count      int                   `json:"count"`
	Confidence float64               `json:"confidence"`
	Context    string                `json:"context,omitempty"`
}

// Engine matches keywords against profile text. Stateless and safe for
// concurrent use.
type Engine struct {
	cfg config.MatchConfig
}

// NewEngine creates an Engine with the given heuristics configuration.
func NewEngine(cfg config.MatchConfig) *Engine {
	if cfg.MinWordLength <= 0 {
		cfg.MinWordLength = 3
	}
	if cfg.MaxContexts <= 0 {
		cfg.MaxContexts = 3
	}
	if cfg.MaxContextLength <= 0 {
		cfg.MaxContextLength = 2000
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = 0.7
	}
	return &Engine{cfg: cfg}
}

// Analyze runs every active keyword against the record's searchable text
// and returns one Result per keyword that occurs at least once. Results
// come back sorted by confidence, highest first.
func (e *Engine) Analyze(record *model.AcquisitionRecord, keywords []model.Keyword) []Result {
	text := cleanContent(buildSearchableText(record.Profile))
	if text == "" {
		return nil
	}

	var results []Result
	for _, kw := range keywords {
		if !kw.Active {
			continue
		}
		word := strings.TrimSpace(kw.Word)
		if len(word) < e.cfg.MinWordLength {
			continue
		}

		positions := findWord(text, word)
		if len(positions) == 0 {
			continue
		}

		results = append(results, Result{
			KeywordID:  kw.ID,
			Word:       kw.Word,
			Category:   kw.Category,
			Count:      len(positions),
			Confidence: confidence(word, kw.Category, len(positions)),
			Context:    e.contexts(text, positions, len(word)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	zap.L().Debug("match: record analyzed",
		zap.String("record_id", record.ID),
		zap.Int("keywords", len(keywords)),
		zap.Int("matches", len(results)),
	)
	return results
}

// buildSearchableText labels each structured section so matches can be
// traced back, then appends the raw page text as a catch-all.
func buildSearchableText(p model.Profile) string {
	var b strings.Builder
	appendSection := func(label, text string) {
		if text != "" {
			b.WriteString(label)
			b.WriteString(": ")
			b.WriteString(text)
			b.WriteString("\n")
		}
	}
	appendSection("HEADLINE", p.Headline)
	appendSection("ABOUT", p.About)
	appendSection("EXPERIENCE", p.Experience)
	appendSection("EDUCATION", p.Education)
	appendSection("SKILLS", p.Skills)
	if p.FullText != "" {
		b.WriteString(p.FullText)
	}
	return b.String()
}

var htmlEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
)

// cleanContent decodes leftover entities and collapses whitespace runs so
// word-boundary matching behaves on one continuous line.
func cleanContent(s string) string {
	s = htmlEntities.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// findWord returns the start offset of every whole-word, case-insensitive
// occurrence.
func findWord(text, word string) []int {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return nil
	}
	var positions []int
	for _, loc := range re.FindAllStringIndex(text, -1) {
		positions = append(positions, loc[0])
	}
	return positions
}

// confidence scores a keyword hit. Base 0.5, up to +0.3 for repeated
// occurrences, up to +0.2 for longer (more specific) words, plus the
// category weight, clipped to 1.0.
func confidence(word string, category model.KeywordCategory, count int) float64 {
	score := 0.5

	occurrence := float64(count) * 0.1
	if occurrence > 0.3 {
		occurrence = 0.3
	}
	score += occurrence

	specificity := float64(len(word)) * 0.05
	if specificity > 0.2 {
		specificity = 0.2
	}
	score += specificity

	score += categoryWeights[category]

	if score > 1.0 {
		score = 1.0
	}
	return score
}
