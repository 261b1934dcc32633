// Package roster imports individuals and keywords from CSV files.
package roster

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/profile-scout/internal/model"
)

// peopleColumns maps accepted header spellings to canonical field names.
var peopleColumns = map[string]string{
	"name":         "name",
	"full_name":    "name",
	"organization": "organization",
	"company":      "organization",
	"org":          "organization",
	"profile_url":  "profile_url",
	"linkedin_url": "profile_url",
	"url":          "profile_url",
}

var keywordColumns = map[string]string{
	"word":     "word",
	"keyword":  "word",
	"term":     "word",
	"category": "category",
	"type":     "category",
}

// ParsePeople reads a people CSV. The header row is required and must carry
// a name column; organization and profile URL columns are optional. Rows
// with an empty name are skipped.
func ParsePeople(r io.Reader) ([]model.Individual, error) {
	rows, header, err := readAll(r)
	if err != nil {
		return nil, err
	}

	cols, err := mapHeader(header, peopleColumns)
	if err != nil {
		return nil, err
	}
	if _, ok := cols["name"]; !ok {
		return nil, eris.New("roster: people csv needs a name column")
	}

	var people []model.Individual
	for _, row := range rows {
		name := field(row, cols, "name")
		if name == "" {
			continue
		}
		people = append(people, model.Individual{
			Name:         name,
			Organization: field(row, cols, "organization"),
			ProfileURL:   field(row, cols, "profile_url"),
		})
	}
	return people, nil
}

// ParseKeywords reads a keyword CSV. The header must carry a word column;
// unknown categories fall back to "other". Imported keywords start active.
func ParseKeywords(r io.Reader) ([]model.Keyword, error) {
	rows, header, err := readAll(r)
	if err != nil {
		return nil, err
	}

	cols, err := mapHeader(header, keywordColumns)
	if err != nil {
		return nil, err
	}
	if _, ok := cols["word"]; !ok {
		return nil, eris.New("roster: keyword csv needs a word column")
	}

	seen := make(map[string]bool)
	var keywords []model.Keyword
	for _, row := range rows {
		word := field(row, cols, "word")
		if word == "" {
			continue
		}
		key := strings.ToLower(word)
		if seen[key] {
			continue
		}
		seen[key] = true
		keywords = append(keywords, model.Keyword{
			Word:     word,
			Category: model.ParseCategory(strings.ToLower(field(row, cols, "category"))),
			Active:   true,
		})
	}
	return keywords, nil
}

func readAll(r io.Reader) (rows [][]string, header []string, err error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, eris.Wrap(err, "roster: read csv")
	}
	if len(all) == 0 {
		return nil, nil, eris.New("roster: empty csv")
	}
	return all[1:], all[0], nil
}

// mapHeader resolves column indexes from header names, case-insensitive.
func mapHeader(header []string, accepted map[string]string) (map[string]int, error) {
	cols := make(map[string]int)
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := accepted[name]; ok {
			if _, dup := cols[canonical]; !dup {
				cols[canonical] = i
			}
		}
	}
	if len(cols) == 0 {
		return nil, eris.New("roster: no recognized columns in header")
	}
	return cols, nil
}

func field(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
