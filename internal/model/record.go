package model

import "time"

// SourceType identifies where acquired content came from.
type SourceType string

const (
	SourceLinkedIn       SourceType = "linkedin"
	SourceCompanyWebsite SourceType = "company_website"
	SourceGoogleSearch   SourceType = "google_search"
)

// RecordStatus tracks an acquisition attempt's lifecycle. Status moves
// forward only (pending -> completed|failed); the single exception is an
// explicit reprocess request, which resets a record to pending.
type RecordStatus string

const (
	RecordPending   RecordStatus = "pending"
	RecordCompleted RecordStatus = "completed"
	RecordFailed    RecordStatus = "failed"
)

// ContentQuality is a coarse tier of how much usable text an acquisition
// yielded.
type ContentQuality string

const (
	QualityNone   ContentQuality = "none"
	QualityLow    ContentQuality = "low"
	QualityMedium ContentQuality = "medium"
	QualityHigh   ContentQuality = "high"
)

// Profile holds the structured text extracted from a profile page.
type Profile struct {
	Headline   string `json:"headline"`
	About      string `json:"about"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
	Skills     string `json:"skills"`
	FullText   string `json:"full_text"`
}

// Empty reports whether nothing usable was extracted.
func (p Profile) Empty() bool {
	return p.Headline == "" && p.About == "" && p.FullText == ""
}

// AcquisitionRecord is one attempt to fetch and extract text from a profile
// URL. Mutated only by the acquirer; terminal once completed or failed.
type AcquisitionRecord struct {
	ID           string         `json:"id"`
	IndividualID string         `json:"individual_id"`
	Source       SourceType     `json:"source"`
	Status       RecordStatus   `json:"status"`
	Profile      Profile        `json:"profile"`
	SourceURL    string         `json:"source_url"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Quality      ContentQuality `json:"quality"`
	ScrapedAt    time.Time      `json:"scraped_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Match records one keyword found in one acquisition record. The
// (record, keyword) pair is unique; the match set for a record is replaced
// atomically on every engine run.
type Match struct {
	ID         string          `json:"id"`
	RecordID   string          `json:"record_id"`
	KeywordID  string          `json:"keyword_id"`
	Word       string          `json:"word"`
	Category   KeywordCategory `json:"category"`
	Context    string          `json:"context"`
	SourceURL  string          `json:"source_url"`
	Count      int             `json:"count"`
	Confidence float64         `json:"confidence"`
	CreatedAt  time.Time       `json:"created_at"`
}
