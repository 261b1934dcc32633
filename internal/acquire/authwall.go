package acquire

import (
	"strings"

	"github.com/sells-group/profile-scout/internal/htmldoc"
)

// authWallIndicators is the substring vocabulary checked against the final
// response URL and the head of the body. LinkedIn rotates its wall pages,
// so the list is deliberately broad.
var authWallIndicators = []string{
	"authwall",
	"login",
	"sign in to linkedin",
	"join linkedin",
	"join now",
	"sign up",
	"uas/login",
	"checkpoint/lg/login",
	"checkpoint/challenge",
	"restricted",
	"verification",
	"security check",
	"unlock",
}

// authWallTitleTerms flag a login page by its <title>.
var authWallTitleTerms = []string{"login", "sign in", "sign up", "join linkedin"}

// restrictedPhrases are "sign in to see more" teasers served around real
// content; any of them means the page is walled.
var restrictedPhrases = []string{
	"see more by signing in",
	"join now to see",
	"sign up to view",
	"this profile is not available",
}

// loginFormSelectors are structural signs of a login form.
var loginFormSelectors = []string{
	`input[type="password"]`,
	`form[action*="login"]`,
	".login-form",
	"#username",
	"#password",
}

// bodyHeadBytes limits how much of the raw body the substring scan reads.
const bodyHeadBytes = 5 * 1024

// isAuthWall reports whether the response is a provider login barrier
// rather than profile content. doc may be nil when the body did not parse;
// the substring checks still apply.
func isAuthWall(body, finalURL string, doc htmldoc.Document) bool {
	urlLower := strings.ToLower(finalURL)
	head := body
	if len(head) > bodyHeadBytes {
		head = head[:bodyHeadBytes]
	}
	headLower := strings.ToLower(head)

	for _, ind := range authWallIndicators {
		if strings.Contains(urlLower, ind) || strings.Contains(headLower, ind) {
			return true
		}
	}

	if doc == nil {
		return false
	}

	title := strings.ToLower(doc.Title())
	for _, term := range authWallTitleTerms {
		if strings.Contains(title, term) {
			return true
		}
	}

	for _, sel := range loginFormSelectors {
		if doc.Exists(sel) {
			return true
		}
	}

	bodyText := strings.ToLower(doc.Text())
	for _, phrase := range restrictedPhrases {
		if strings.Contains(bodyText, phrase) {
			return true
		}
	}

	return false
}
