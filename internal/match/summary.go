package match

import (
	"sort"

	"github.com/sells-group/profile-scout/internal/model"
)

// topMatchLimit caps how many leading matches a summary carries.
const topMatchLimit = 10

// CategoryStats aggregates one category's share of a record's matches.
type CategoryStats struct {
	Matches     int `json:"matches"`
	Occurrences int `json:"occurrences"`
}

// Summary aggregates one record's match results for reporting.
type Summary struct {
	UniqueKeywords   int                                     `json:"unique_keywords"`
	TotalOccurrences int                                     `json:"total_occurrences"`
	ByCategory       map[model.KeywordCategory]CategoryStats `json:"by_category"`
	AvgConfidence    float64                                 `json:"avg_confidence"`
	TopMatches       []Result                                `json:"top_matches"`
}

// Summarize rolls match results up into a per-record summary. Top matches
// are ordered by occurrence count, most frequent first.
func Summarize(results []Result) Summary {
	s := Summary{
		UniqueKeywords: len(results),
		ByCategory:     make(map[model.KeywordCategory]CategoryStats),
	}
	if len(results) == 0 {
		return s
	}

	var confSum float64
	for _, r := range results {
		s.TotalOccurrences += r.Count
		stats := s.ByCategory[r.Category]
		stats.Matches++
		stats.Occurrences += r.Count
		s.ByCategory[r.Category] = stats
		confSum += r.Confidence
	}
	s.AvgConfidence = confSum / float64(len(results))

	top := make([]Result, len(results))
	copy(top, results)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	if len(top) > topMatchLimit {
		top = top[:topMatchLimit]
	}
	s.TopMatches = top
	return s
}
