package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/profile-scout/internal/config"
	"github.com/sells-group/profile-scout/pkg/googlecse"
)

// stubSearch returns canned results or a fixed error.
type stubSearch struct {
	resp  *googlecse.SearchResponse
	err   error
	calls int
}

func (s *stubSearch) Search(_ context.Context, _ string, _ int) (*googlecse.SearchResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		APIKey:     "key",
		EngineID:   "cx",
		DailyQuota: 100,
		MaxRetries: 1,
		NumResults: 5,
	}
}

func TestResolve_EmptyNameRejected(t *testing.T) {
	r := NewResolver(nil, NewGate(0, 10), config.SearchConfig{})

	_, err := r.Resolve(context.Background(), "  ", "")
	require.Error(t, err)
}

func TestResolve_NoCredentialsUsesMock(t *testing.T) {
	r := NewResolver(nil, NewGate(0, 10), config.SearchConfig{})

	candidates, err := r.Resolve(context.Background(), "Jane Doe", "Acme Inc.")
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", c.URL)
	assert.True(t, c.Mock)
	assert.False(t, c.Verified)
	assert.InDelta(t, 0.5, c.RelevanceScore, 0.001)
}

func TestResolve_QuotaExhaustedFallsBackToMock(t *testing.T) {
	stub := &stubSearch{resp: &googlecse.SearchResponse{}}
	r := NewResolver(stub, NewGate(0, 0), testSearchConfig())

	candidates, err := r.Resolve(context.Background(), "Jane Doe", "")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].Mock)
	assert.Zero(t, stub.calls, "no API call once quota is gone")
}

func TestResolve_APIQuotaStatusFallsBackToMock(t *testing.T) {
	stub := &stubSearch{err: &googlecse.StatusError{StatusCode: 403, Body: "quota"}}
	r := NewResolver(stub, NewGate(0, 10), testSearchConfig())

	candidates, err := r.Resolve(context.Background(), "Jane Doe", "")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.True(t, candidates[0].Mock)
	assert.Equal(t, 1, stub.calls, "status errors are not retried")
}

func TestResolve_RanksAndFiltersResults(t *testing.T) {
	stub := &stubSearch{resp: &googlecse.SearchResponse{
		Items: []googlecse.Item{
			{
				Title:   "Some Directory Listing",
				Link:    "https://example.com/people/jane-doe",
				Snippet: "Jane Doe",
			},
			{
				Title:   "Jane Doe - Engineer | LinkedIn",
				Link:    "https://www.linkedin.com/in/jane-doe",
				Snippet: "Jane Doe. Engineer at Acme.",
			},
			{
				Title:   "J. Doe",
				Link:    "https://www.linkedin.com/pub/j-doe",
				Snippet: "profile",
			},
		},
	}}
	r := NewResolver(stub, NewGate(0, 10), testSearchConfig())

	candidates, err := r.Resolve(context.Background(), "Jane Doe", "")
	require.NoError(t, err)
	require.Len(t, candidates, 2, "non-profile URLs are dropped")

	assert.Equal(t, "https://www.linkedin.com/in/jane-doe", candidates[0].URL)
	assert.True(t, candidates[0].Verified)
	assert.GreaterOrEqual(t, candidates[0].RelevanceScore, candidates[1].RelevanceScore)
}

func TestRelevance_FullMatchScoresHigh(t *testing.T) {
	// Full name in title (0.6) + both tokens present (0.3) + provider term (0.1).
	score := relevance("Jane Doe", "Jane Doe - Engineer | LinkedIn", "Jane Doe at Acme")
	assert.InDelta(t, 1.0, score, 0.001)
}

func TestRelevance_PartialTokenCoverage(t *testing.T) {
	// One of two tokens in snippet only: 0.5 * 0.3.
	score := relevance("Jane Doe", "Engineering Directory", "jane's page")
	assert.InDelta(t, 0.15, score, 0.001)
}

func TestBuildQuery(t *testing.T) {
	q := buildQuery("Jane Doe", "Acme Inc.")
	assert.Equal(t, `"Jane" OR "Doe" "Acme" site:linkedin.com/in`, q)
}

func TestBuildQuery_NoOrganization(t *testing.T) {
	q := buildQuery("Jane Doe", "")
	assert.Equal(t, `"Jane" OR "Doe" site:linkedin.com/in`, q)
}

func TestSanitizeOrganization(t *testing.T) {
	assert.Equal(t, "Acme", sanitizeOrganization("Acme S.A."))
	assert.Equal(t, "Acme", sanitizeOrganization("Acme LLC"))
	assert.Equal(t, "Globex", sanitizeOrganization("Globex Corp."))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "jane-doe", Slugify("Jane Doe"))
	assert.Equal(t, "jean-claude-van-damme", Slugify("  Jean Claude   Van Damme "))
	assert.Equal(t, "", Slugify("   "))
}

func TestIsProfileURL(t *testing.T) {
	assert.True(t, isProfileURL("https://www.linkedin.com/in/jane-doe"))
	assert.True(t, isProfileURL("https://LinkedIn.com/pub/jane"))
	assert.False(t, isProfileURL("https://www.linkedin.com/company/acme"))
	assert.False(t, isProfileURL("https://example.com/in/jane"))
}
