// Package search resolves individuals to candidate LinkedIn profile URLs
// via Google Custom Search, with a deterministic offline fallback.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/profile-scout/internal/config"
	"github.com/sells-group/profile-scout/internal/resilience"
	"github.com/sells-group/profile-scout/pkg/googlecse"
)

// Candidate is one ranked profile URL for an individual.
type Candidate struct {
	URL            string  `json:"url"`
	Title          string  `json:"title"`
	Snippet        string  `json:"snippet"`
	RelevanceScore float64 `json:"relevance_score"`
	Verified       bool    `json:"verified"`
	Mock           bool    `json:"mock,omitempty"`
}

// profilePathPatterns are the URL fragments that identify a LinkedIn
// profile page. Results matching neither are discarded before scoring.
var profilePathPatterns = []string{
	"linkedin.com/in/",
	"linkedin.com/pub/",
}

// providerTerms in a result title earn a small relevance bonus.
var providerTerms = []string{"linkedin", "profile", "connect"}

// corporate suffixes stripped from organization qualifiers before they are
// appended to the query.
var orgSuffixes = []string{"S.A.", "Inc.", "LLC", "Ltd.", "Corp.", "Co."}

// verifiedThreshold marks high-confidence candidates.
const verifiedThreshold = 0.7

// Resolver finds candidate profile URLs for a named individual.
type Resolver struct {
	client googlecse.Client
	gate   *Gate
	cfg    config.SearchConfig
}

// NewResolver creates a Resolver. The client may be nil when no credentials
// are configured; every resolution then uses the deterministic mock result.
func NewResolver(client googlecse.Client, gate *Gate, cfg config.SearchConfig) *Resolver {
	return &Resolver{client: client, gate: gate, cfg: cfg}
}

// Resolve returns candidate profile URLs for the named individual, ranked
// by relevance. It never returns an empty error-free slice for a valid
// name: quota exhaustion and credential absence degrade to a single mock
// candidate so batches keep moving.
func (r *Resolver) Resolve(ctx context.Context, name, organization string) ([]Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, eris.New("search: empty name")
	}

	log := zap.L().With(zap.String("name", name))

	if r.client == nil || r.cfg.APIKey == "" || r.cfg.EngineID == "" {
		log.Debug("search: no credentials, using mock result")
		return r.mockCandidates(name, organization), nil
	}

	ok, err := r.gate.Acquire(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "search: rate gate")
	}
	if !ok {
		log.Warn("search: daily quota exhausted, using mock result")
		return r.mockCandidates(name, organization), nil
	}

	query := buildQuery(name, organization)

	resp, err := resilience.DoVal(ctx, resilience.RetryConfig{
		MaxAttempts: r.cfg.MaxRetries,
		ShouldRetry: retryableSearchErr,
		OnRetry:     resilience.RetryLogger("googlecse", "search"),
	}, func(ctx context.Context) (*googlecse.SearchResponse, error) {
		return r.client.Search(ctx, query, r.cfg.NumResults)
	})
	if err != nil {
		// 403/429 from the search API means quota trouble, not a broken
		// individual: degrade to the mock result instead of failing.
		var se *googlecse.StatusError
		if errors.As(err, &se) && (se.StatusCode == 403 || se.StatusCode == 429) {
			log.Warn("search: api quota response, using mock result",
				zap.Int("status", se.StatusCode))
			return r.mockCandidates(name, organization), nil
		}
		return nil, eris.Wrap(err, "search: query failed")
	}

	candidates := scoreResults(name, resp.Items)
	log.Info("search: resolved candidates",
		zap.Int("results", len(resp.Items)),
		zap.Int("candidates", len(candidates)),
	)
	return candidates, nil
}

// Stats exposes the shared gate's quota snapshot.
func (r *Resolver) Stats() GateStats {
	return r.gate.Stats()
}

// retryableSearchErr retries transient network failures but never API
// status responses: those carry quota semantics handled by the caller.
func retryableSearchErr(err error) bool {
	var se *googlecse.StatusError
	if errors.As(err, &se) {
		return false
	}
	return resilience.IsTransient(err)
}

// buildQuery OR-combines quoted name tokens, appends a sanitized
// organization qualifier, and restricts to LinkedIn profile paths.
func buildQuery(name, organization string) string {
	parts := strings.Fields(name)
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = `"` + p + `"`
	}
	query := strings.Join(quoted, " OR ")

	if org := sanitizeOrganization(organization); org != "" {
		query += ` "` + org + `"`
	}

	return query + " site:linkedin.com/in"
}

// sanitizeOrganization strips corporate-suffix noise from an organization
// qualifier.
func sanitizeOrganization(org string) string {
	for _, s := range orgSuffixes {
		org = strings.ReplaceAll(org, s, "")
	}
	return strings.TrimSpace(org)
}

// scoreResults filters non-profile URLs, scores the rest, and sorts by
// descending relevance.
func scoreResults(name string, items []googlecse.Item) []Candidate {
	var candidates []Candidate
	for _, item := range items {
		if !isProfileURL(item.Link) {
			continue
		}
		score := relevance(name, item.Title, item.Snippet)
		candidates = append(candidates, Candidate{
			URL:            item.Link,
			Title:          item.Title,
			Snippet:        item.Snippet,
			RelevanceScore: score,
			Verified:       score > verifiedThreshold,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RelevanceScore > candidates[j].RelevanceScore
	})
	return candidates
}

// isProfileURL checks the URL against the provider's profile-path patterns.
func isProfileURL(u string) bool {
	lower := strings.ToLower(u)
	for _, p := range profilePathPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// relevance estimates in [0,1] how likely a search result is the right
// profile: full-name title match, per-token coverage, and provider terms.
func relevance(name, title, snippet string) float64 {
	score := 0.0
	nameLower := strings.ToLower(name)
	titleLower := strings.ToLower(title)
	snippetLower := strings.ToLower(snippet)

	if strings.Contains(titleLower, nameLower) {
		score += 0.6
	}

	tokens := strings.Fields(nameLower)
	if len(tokens) > 0 {
		matching := 0
		for _, tok := range tokens {
			if strings.Contains(titleLower, tok) || strings.Contains(snippetLower, tok) {
				matching++
			}
		}
		score += float64(matching) / float64(len(tokens)) * 0.3
	}

	for _, term := range providerTerms {
		if strings.Contains(titleLower, term) {
			score += 0.1
			break
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Slugify lowercases a name and joins its tokens with hyphens, matching
// LinkedIn's vanity URL convention.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}

// mockCandidates builds the deterministic offline fallback result.
func (r *Resolver) mockCandidates(name, organization string) []Candidate {
	slug := Slugify(name)
	orgInfo := ""
	if organization != "" {
		orgInfo = " at " + organization
	}
	return []Candidate{{
		URL:            "https://www.linkedin.com/in/" + slug,
		Title:          name + " | LinkedIn",
		Snippet:        fmt.Sprintf("View %s's LinkedIn profile%s. This is a mock result.", name, orgInfo),
		RelevanceScore: 0.5,
		Verified:       false,
		Mock:           true,
	}}
}
