// Package acquire fetches public profile pages and extracts structured
// text from them despite the provider's anti-scraping defenses.
package acquire

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/profile-scout/internal/config"
	"github.com/sells-group/profile-scout/internal/htmldoc"
	"github.com/sells-group/profile-scout/internal/model"
	"github.com/sells-group/profile-scout/internal/resilience"
)

// maxBodyBytes bounds how much of a profile page is read.
const maxBodyBytes = 512 * 1024

// userAgents is rotated across requests to look like ordinary browser
// traffic.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// browserHeaders mimic a real navigation request.
var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Cache-Control":             "max-age=0",
	"DNT":                       "1",
}

// Acquirer fetches and extracts one profile URL at a time. Safe for
// concurrent use; request pacing is shared across callers.
type Acquirer struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     config.AcquireConfig

	// backoffBase scales retry sleeps; shrunk in tests.
	backoffBase time.Duration

	mu      sync.Mutex
	uaIndex int
}

// NewAcquirer creates an Acquirer with the given configuration.
func NewAcquirer(cfg config.AcquireConfig) *Acquirer {
	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = 30
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.Delay <= 0 {
		cfg.Delay = 2 * time.Second
	}
	if cfg.RateLimitWait <= 0 {
		cfg.RateLimitWait = 10 * time.Second
	}
	if cfg.MaxContentLength <= 0 {
		cfg.MaxContentLength = 15000
	}
	return &Acquirer{
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
		},
		limiter:     rate.NewLimiter(rate.Every(cfg.Delay), 1),
		cfg:         cfg,
		backoffBase: time.Second,
	}
}

// ValidateURL checks that a URL follows the provider's profile convention
// without issuing any request.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return eris.Wrap(err, "acquire: parse url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return eris.Errorf("acquire: unsupported scheme %q", u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host != "linkedin.com" && !strings.HasSuffix(host, ".linkedin.com") {
		return eris.Errorf("acquire: host %q is not linkedin.com", host)
	}
	if !strings.Contains(u.Path, "/in/") && !strings.Contains(u.Path, "/pub/") {
		return eris.Errorf("acquire: path %q is not a profile path", u.Path)
	}
	return nil
}

// Acquire fetches the profile URL and returns a populated acquisition
// record. The record is always non-nil: classified failures come back with
// a failed status and explanatory message alongside the error, so callers
// can persist the outcome instead of dropping it.
func (a *Acquirer) Acquire(ctx context.Context, profileURL string) (*model.AcquisitionRecord, error) {
	log := zap.L().With(zap.String("url", profileURL))

	if err := ValidateURL(profileURL); err != nil {
		return a.failedRecord(profileURL, failure(FailInvalidURL, profileURL, err))
	}

	body, finalURL, err := a.fetch(ctx, profileURL)
	if err != nil {
		var ae *Error
		if eris.As(err, &ae) {
			return a.failedRecord(profileURL, ae)
		}
		return a.failedRecord(profileURL, failure(FailTransient, profileURL, err))
	}

	doc, parseErr := htmldoc.Parse(body)
	if parseErr != nil {
		log.Warn("acquire: body did not parse, auth-wall check on raw text only", zap.Error(parseErr))
	}

	if isAuthWall(body, finalURL, doc) {
		log.Warn("acquire: auth wall detected")
		return a.failedRecord(profileURL, failure(FailAuthWall, profileURL, nil))
	}

	record := &model.AcquisitionRecord{
		Source:    model.SourceLinkedIn,
		Status:    model.RecordCompleted,
		SourceURL: profileURL,
		ScrapedAt: time.Now().UTC(),
	}

	if doc != nil {
		record.Profile = extractProfile(doc, a.cfg.MaxContentLength)
	}
	record.Quality = assessQuality(record.Profile)

	if record.Profile.Empty() {
		ae := failure(FailNoContent, profileURL, nil)
		record.Status = model.RecordFailed
		record.ErrorMessage = ae.Message()
		return record, ae
	}

	log.Info("acquire: profile extracted",
		zap.String("quality", string(record.Quality)),
		zap.Int("full_text_len", len(record.Profile.FullText)),
	)
	return record, nil
}

// fetch performs the paced, retried GET. 404/403 are terminal, 429 earns a
// single extended wait, transient errors back off exponentially.
func (a *Acquirer) fetch(ctx context.Context, profileURL string) (body, finalURL string, err error) {
	log := zap.L().With(zap.String("url", profileURL))

	rateLimitWaited := false
	var lastErr error

	for attempt := 0; attempt < a.cfg.MaxRetries; attempt++ {
		if err := a.limiter.Wait(ctx); err != nil {
			return "", "", eris.Wrap(err, "acquire: rate limiter wait")
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
		if err != nil {
			return "", "", eris.Wrap(err, "acquire: create request")
		}
		req.Header.Set("User-Agent", a.nextUserAgent())
		for k, v := range browserHeaders {
			req.Header.Set(k, v)
		}

		resp, err := a.client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return "", "", eris.Wrap(err, "acquire: fetch cancelled")
			}
			if !resilience.IsTransient(err) {
				return "", "", eris.Wrap(err, "acquire: fetch")
			}
			log.Warn("acquire: transient fetch error, retrying",
				zap.Int("attempt", attempt+1), zap.Error(err))
			a.backoff(ctx, attempt)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			_ = resp.Body.Close()
			return "", "", failure(FailNotFound, profileURL, nil)

		case resp.StatusCode == http.StatusForbidden:
			_ = resp.Body.Close()
			return "", "", failure(FailForbidden, profileURL, nil)

		case resp.StatusCode == http.StatusTooManyRequests:
			_ = resp.Body.Close()
			if rateLimitWaited {
				return "", "", failure(FailRateLimited, profileURL, nil)
			}
			rateLimitWaited = true
			log.Warn("acquire: rate limited, extended wait before one more attempt")
			if err := sleepCtx(ctx, a.cfg.RateLimitWait); err != nil {
				return "", "", failure(FailRateLimited, profileURL, err)
			}
			attempt-- // the extended wait does not consume a retry
			continue

		case resilience.IsTransientHTTPStatus(resp.StatusCode):
			_ = resp.Body.Close()
			lastErr = eris.Errorf("acquire: status %d", resp.StatusCode)
			log.Warn("acquire: server error, retrying",
				zap.Int("status", resp.StatusCode), zap.Int("attempt", attempt+1))
			a.backoff(ctx, attempt)
			continue

		case resp.StatusCode >= 400:
			_ = resp.Body.Close()
			return "", "", eris.Errorf("acquire: unexpected status %d", resp.StatusCode)
		}

		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		final := resp.Request.URL.String()
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			log.Warn("acquire: read body failed, retrying",
				zap.Int("attempt", attempt+1), zap.Error(readErr))
			a.backoff(ctx, attempt)
			continue
		}

		return string(raw), final, nil
	}

	return "", "", eris.Wrap(lastErr, "acquire: retries exhausted")
}

// nextUserAgent rotates through the identity pool.
func (a *Acquirer) nextUserAgent() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	ua := userAgents[a.uaIndex%len(userAgents)]
	a.uaIndex++
	return ua
}

// backoff sleeps 2^attempt base units, respecting cancellation.
func (a *Acquirer) backoff(ctx context.Context, attempt int) {
	d := time.Duration(math.Pow(2, float64(attempt))) * a.backoffBase
	_ = sleepCtx(ctx, d)
}

// failedRecord builds the terminal record for a classified failure.
func (a *Acquirer) failedRecord(profileURL string, ae *Error) (*model.AcquisitionRecord, error) {
	return &model.AcquisitionRecord{
		Source:       model.SourceLinkedIn,
		Status:       model.RecordFailed,
		SourceURL:    profileURL,
		ErrorMessage: ae.Message(),
		Quality:      model.QualityNone,
		ScrapedAt:    time.Now().UTC(),
	}, ae
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
