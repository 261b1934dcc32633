// Package model defines the plain data objects exchanged between the
// discovery, acquisition, and matching engines and their collaborators.
package model

import "time"

// Individual is a person whose public profile should be located and scored.
// Supplied by a collaborator; the engines treat it as read-only.
type Individual struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Organization string    `json:"organization"`
	ProfileURL   string    `json:"profile_url,omitempty"` // known LinkedIn URL, if any
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasProfileURL reports whether a profile URL is already known for this
// individual, skipping the search-resolution step.
func (i Individual) HasProfileURL() bool {
	return i.ProfileURL != ""
}
