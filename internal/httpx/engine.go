package httpx

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"salesflow/logger"
)

const defaultRetryAfter = 60 * time.Second

// AuthFunc attaches platform-specific authentication to a request. The
// credential is captured at construction and never refreshed mid-run.
type AuthFunc func(*http.Request)

// TokenHeaderAuth sets a custom header to a fixed token value
// (e.g. X-Shopify-Access-Token).
func TokenHeaderAuth(header, token string) AuthFunc {
	return func(req *http.Request) {
		req.Header.Set(header, token)
	}
}

// BearerAuth sets an OAuth bearer token.
func BearerAuth(token string) AuthFunc {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// BasicKeyAuth base64-encodes a bare API key as a Basic credential,
// matching the Amplifier auth scheme.
func BasicKeyAuth(key string) AuthFunc {
	encoded := base64.StdEncoding.EncodeToString([]byte(key))
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Basic "+encoded)
	}
}

// Options tune one Engine instance.
type Options struct {
	Timeout     time.Duration
	MaxAttempts int
	BackoffBase time.Duration
	UserAgent   string
}

// Engine issues a single HTTP call with auth, timeout, retry and
// rate-limit handling. One instance per target platform.
type Engine struct {
	platform    string
	httpc       *http.Client
	auth        AuthFunc
	userAgent   string
	maxAttempts int
	backoffBase time.Duration
	sleep       func(time.Duration)
	log         *logger.Log
}

// Response is one parsed HTTP exchange. Body is fully read so callers can
// decode it as many times as they like; Header is retained for pagination
// (the Link header in particular).
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into dst.
func (r *Response) Decode(dst any) error {
	if err := json.Unmarshal(r.Body, dst); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func NewEngine(platform string, auth AuthFunc, opts Options) *Engine {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Salesflow-Go-Client/1.0"
	}
	return &Engine{
		platform:    platform,
		httpc:       &http.Client{Timeout: opts.Timeout},
		auth:        auth,
		userAgent:   opts.UserAgent,
		maxAttempts: opts.MaxAttempts,
		backoffBase: opts.BackoffBase,
		sleep:       time.Sleep,
		log:         logger.GetLogger(),
	}
}

// Do performs one logical API call. 429 responses wait out the advertised
// Retry-After (60s fallback) and retry the same attempt; other HTTP errors
// and network failures back off 2^attempt before retrying; the final
// attempt's failure is surfaced as *APIError with the server's message.
func (e *Engine) Do(ctx context.Context, method, rawURL string, query url.Values, body any) (*Response, error) {
	log := e.log.WithComponent(e.platform + "_engine")

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = data
	}

	target := rawURL
	if len(query) > 0 {
		sep := "?"
		if u, err := url.Parse(rawURL); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		target = rawURL + sep + query.Encode()
	}

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		resp, err := e.once(ctx, method, target, payload)
		if err != nil {
			// Network-level failure: connection refused, timeout, DNS.
			if attempt == e.maxAttempts-1 {
				return nil, &APIError{Platform: e.platform, Message: fmt.Sprintf("request failed: %v", err)}
			}
			wait := e.backoffBase << attempt
			log.WithError(err).WithFields(logger.Fields{"attempt": attempt, "wait": wait.String()}).Warn("request failed, backing off")
			logger.IncrementRetry()
			e.sleep(wait)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := retryAfter(resp.Header)
			log.WithFields(logger.Fields{"wait": wait.String()}).Warn("rate limited, waiting")
			logger.IncrementRateLimitWait()
			e.sleep(wait)
			attempt-- // a 429 never consumes a retry slot
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		if attempt == e.maxAttempts-1 {
			return nil, &APIError{
				Platform:   e.platform,
				StatusCode: resp.StatusCode,
				Message:    extractErrorMessage(resp.Body),
			}
		}
		wait := e.backoffBase << attempt
		log.WithFields(logger.Fields{"status": resp.StatusCode, "attempt": attempt, "wait": wait.String()}).Warn("http error, backing off")
		logger.IncrementRetry()
		e.sleep(wait)
	}

	return nil, &APIError{Platform: e.platform, Message: "max retries exceeded"}
}

func (e *Engine) once(ctx context.Context, method, target string, payload []byte) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", e.userAgent)
	if e.auth != nil {
		e.auth(req)
	}

	logger.IncrementRequest(e.platform)

	resp, err := e.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// retryAfter reads the Retry-After header, falling back to 60s when the
// header is absent or not a plain number of seconds.
func retryAfter(header http.Header) time.Duration {
	v := header.Get("Retry-After")
	if v == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}
