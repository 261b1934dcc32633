package model

import "time"

// KeywordCategory classifies a keyword for confidence weighting.
type KeywordCategory string

const (
	CategorySkill         KeywordCategory = "skill"
	CategoryTitle         KeywordCategory = "title"
	CategoryIndustry      KeywordCategory = "industry"
	CategoryTechnology    KeywordCategory = "technology"
	CategoryCertification KeywordCategory = "certification"
	CategoryEducation     KeywordCategory = "education"
	CategoryOther         KeywordCategory = "other"
)

// ValidCategories lists every accepted keyword category.
var ValidCategories = []KeywordCategory{
	CategorySkill,
	CategoryTitle,
	CategoryIndustry,
	CategoryTechnology,
	CategoryCertification,
	CategoryEducation,
	CategoryOther,
}

// ParseCategory normalizes a raw category string, defaulting to "other".
func ParseCategory(raw string) KeywordCategory {
	c := KeywordCategory(raw)
	for _, v := range ValidCategories {
		if c == v {
			return c
		}
	}
	return CategoryOther
}

// Keyword is one taxonomy entry scored against acquired profile text.
// The word is unique; the set is immutable during a single match run.
type Keyword struct {
	ID        string          `json:"id"`
	Word      string          `json:"word"`
	Category  KeywordCategory `json:"category"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}
