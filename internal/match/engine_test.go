package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profile-scout/internal/config"
	"github.com/sells-group/profile-scout/internal/model"
)

func testEngine() *Engine {
	return NewEngine(config.MatchConfig{
		MinWordLength:       3,
		MaxContexts:         3,
		MaxContextLength:    2000,
		SimilarityThreshold: 0.7,
	})
}

func kw(word string, category model.KeywordCategory) model.Keyword {
	return model.Keyword{ID: "kw-" + word, Word: word, Category: category, Active: true}
}

func record(fullText string) *model.AcquisitionRecord {
	return &model.AcquisitionRecord{
		ID:      "rec-1",
		Status:  model.RecordCompleted,
		Profile: model.Profile{FullText: fullText},
	}
}

func TestAnalyze_CountsOccurrences(t *testing.T) {
	e := testEngine()
	rec := record("Go services deployed on Kubernetes. Kubernetes operators. kubernetes at scale.")

	results := e.Analyze(rec, []model.Keyword{kw("kubernetes", model.CategorySkill)})
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Count, "matching is case-insensitive")
	assert.Equal(t, "kw-kubernetes", results[0].KeywordID)
}

func TestAnalyze_WholeWordOnly(t *testing.T) {
	e := testEngine()
	rec := record("The javascript ecosystem is not java. Javadoc either.")

	results := e.Analyze(rec, []model.Keyword{kw("java", model.CategoryTechnology)})
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Count, "substrings of longer words do not match")
}

func TestAnalyze_SkipsShortAndInactive(t *testing.T) {
	e := testEngine()
	rec := record("Go is a language. R too.")

	inactive := kw("language", model.CategorySkill)
	inactive.Active = false

	results := e.Analyze(rec, []model.Keyword{
		kw("Go", model.CategorySkill), // below min length
		inactive,
	})
	assert.Empty(t, results)
}

func TestAnalyze_NoTextNoResults(t *testing.T) {
	e := testEngine()
	rec := &model.AcquisitionRecord{ID: "rec-2"}

	results := e.Analyze(rec, []model.Keyword{kw("kubernetes", model.CategorySkill)})
	assert.Empty(t, results)
}

func TestAnalyze_SortedByConfidence(t *testing.T) {
	e := testEngine()
	rec := record("AWS certification earned. Uses aws daily. Knows php a bit.")

	results := e.Analyze(rec, []model.Keyword{
		kw("php", model.CategoryOther),
		kw("aws", model.CategoryCertification),
	})
	require.Len(t, results, 2)
	assert.Equal(t, "aws", results[0].Word)
	assert.Greater(t, results[0].Confidence, results[1].Confidence)
}

func TestAnalyze_SectionsAreSearchable(t *testing.T) {
	e := testEngine()
	rec := &model.AcquisitionRecord{
		ID: "rec-3",
		Profile: model.Profile{
			Headline: "Kubernetes platform lead",
			Skills:   "terraform, helm",
		},
	}

	results := e.Analyze(rec, []model.Keyword{
		kw("kubernetes", model.CategorySkill),
		kw("terraform", model.CategoryTechnology),
	})
	assert.Len(t, results, 2)
}

func TestAnalyze_TwoOccurrenceSkillScoresFull(t *testing.T) {
	// 0.5 base + 0.2 (two occurrences) + 0.2 (length cap) + 0.1 (skill)
	// lands exactly on the ceiling.
	e := testEngine()
	rec := record("Python services in production. Ships Python tooling daily.")

	results := e.Analyze(rec, []model.Keyword{kw("Python", model.CategorySkill)})
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Count)
	assert.InDelta(t, 1.0, results[0].Confidence, 0.0001)
}

func TestAnalyze_RepeatRunsAreIdentical(t *testing.T) {
	e := testEngine()
	rec := record("Runs kubernetes clusters and terraform stacks. More kubernetes.")
	keywords := []model.Keyword{
		kw("kubernetes", model.CategorySkill),
		kw("terraform", model.CategoryTechnology),
	}

	first := e.Analyze(rec, keywords)
	second := e.Analyze(rec, keywords)
	assert.Equal(t, first, second, "unchanged input yields an unchanged result set")
}

func TestConfidence_CapsAtOne(t *testing.T) {
	// 0.5 base + 0.3 occurrence cap + 0.2 length cap + 0.15 certification
	// would be 1.15; the score clips to 1.0.
	score := confidence("certification", model.CategoryCertification, 10)
	assert.InDelta(t, 1.0, score, 0.0001)
}

func TestConfidence_SingleShortMatch(t *testing.T) {
	// 0.5 + 0.1 (one occurrence) + 0.15 (3 letters) + 0 (other).
	score := confidence("php", model.CategoryOther, 1)
	assert.InDelta(t, 0.75, score, 0.0001)
}

func TestConfidence_CategoryWeightApplied(t *testing.T) {
	base := confidence("sql", model.CategoryOther, 1)
	boosted := confidence("sql", model.CategoryCertification, 1)
	assert.InDelta(t, 0.15, boosted-base, 0.0001)
}

func TestCleanContent(t *testing.T) {
	in := "A &amp; B\n\n  separated   by &nbsp; whitespace"
	assert.Equal(t, "A & B separated by whitespace", cleanContent(in))
}

func TestFindWord_SpecialCharactersQuoted(t *testing.T) {
	positions := findWord("Ships Node.js services. Not nodeXjs.", "node.js")
	assert.Len(t, positions, 1, "the dot is literal, not a wildcard")
}

func TestAnalyze_RepeatedWordLongText(t *testing.T) {
	e := testEngine()
	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("Deep experience with postgresql in production. ")
	}
	rec := record(b.String())

	results := e.Analyze(rec, []model.Keyword{kw("postgresql", model.CategoryTechnology)})
	require.Len(t, results, 1)
	assert.Equal(t, 50, results[0].Count)
	assert.LessOrEqual(t, len(results[0].Context), 2000)
}
