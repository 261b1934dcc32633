package acquire

import "fmt"

// FailureKind classifies why an acquisition could not produce usable
// content. Operators rely on the distinction between blocked (AuthWall,
// RateLimited) and broken (the rest).
type FailureKind string

const (
	// FailInvalidURL: the URL failed validation; no request was issued.
	FailInvalidURL FailureKind = "invalid_url"
	// FailNotFound: the profile returned 404.
	FailNotFound FailureKind = "not_found"
	// FailForbidden: the profile returned 403.
	FailForbidden FailureKind = "forbidden"
	// FailRateLimited: 429 persisted past the single extended wait.
	FailRateLimited FailureKind = "rate_limited"
	// FailAuthWall: the provider served a login barrier instead of content.
	FailAuthWall FailureKind = "auth_wall"
	// FailNoContent: the fetch succeeded but nothing usable was extracted.
	FailNoContent FailureKind = "no_content"
	// FailTransient: retries were exhausted on a transient network error.
	FailTransient FailureKind = "transient"
)

// Error is a classified acquisition failure.
type Error struct {
	Kind FailureKind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("acquire: %s: %s: %v", e.Kind, e.URL, e.Err)
	}
	return fmt.Sprintf("acquire: %s: %s", e.Kind, e.URL)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the operator-facing error message stored on the record.
func (e *Error) Message() string {
	switch e.Kind {
	case FailInvalidURL:
		return "Invalid LinkedIn URL"
	case FailNotFound:
		return "Profile not found (404)"
	case FailForbidden:
		return "Access forbidden (403) - profile may be private"
	case FailRateLimited:
		return "Rate limited - too many requests"
	case FailAuthWall:
		return "LinkedIn requires authentication"
	case FailNoContent:
		return "Could not extract profile content - page may be empty or blocked"
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return string(e.Kind)
	}
}

func failure(kind FailureKind, url string, err error) *Error {
	return &Error{Kind: kind, URL: url, Err: err}
}
