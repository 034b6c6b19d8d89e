package httpx

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testEngine(t *testing.T, auth AuthFunc, maxAttempts int) (*Engine, *[]time.Duration) {
	t.Helper()
	e := NewEngine("test", auth, Options{
		Timeout:     5 * time.Second,
		MaxAttempts: maxAttempts,
		BackoffBase: time.Second,
	})
	sleeps := &[]time.Duration{}
	e.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	return e, sleeps
}

func TestDoRateLimitedThenSuccess(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	e, sleeps := testEngine(t, nil, 3)
	resp, err := e.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	// One sleep per 429, none consumed from the retry budget.
	if len(*sleeps) != 2 {
		t.Fatalf("expected 2 sleeps, got %d", len(*sleeps))
	}
	for _, d := range *sleeps {
		if d != 7*time.Second {
			t.Errorf("expected 7s rate-limit wait, got %v", d)
		}
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoFailsAfterMaxAttempts(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"errors":"boom"}`))
	}))
	defer srv.Close()

	e, sleeps := testEngine(t, nil, 3)
	_, err := e.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("unexpected status: %d", apiErr.StatusCode)
	}
	if apiErr.Message != "boom" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", calls)
	}
	// Exponential backoff: 2^0 and 2^1 seconds between attempts.
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(*sleeps) != len(want) {
		t.Fatalf("expected %d sleeps, got %d", len(want), len(*sleeps))
	}
	for i, d := range want {
		if (*sleeps)[i] != d {
			t.Errorf("sleep %d: expected %v, got %v", i, d, (*sleeps)[i])
		}
	}
}

func TestDoNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	e, sleeps := testEngine(t, nil, 2)
	_, err := e.Do(context.Background(), http.MethodGet, srv.URL, nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if len(*sleeps) != 1 {
		t.Errorf("expected 1 backoff sleep, got %d", len(*sleeps))
	}
}

func TestAuthHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cases := []struct {
		name   string
		auth   AuthFunc
		header string
		want   string
	}{
		{"token header", TokenHeaderAuth("X-Shopify-Access-Token", "shpat_x"), "X-Shopify-Access-Token", "shpat_x"},
		{"bearer", BearerAuth("tok"), "Authorization", "Bearer tok"},
		{"basic key", BasicKeyAuth("apikey"), "Authorization", "Basic " + base64.StdEncoding.EncodeToString([]byte("apikey"))},
	}
	for _, tc := range cases {
		e, _ := testEngine(t, tc.auth, 1)
		if _, err := e.Do(context.Background(), http.MethodGet, srv.URL, nil, nil); err != nil {
			t.Fatalf("%s: Do failed: %v", tc.name, err)
		}
		if v := got.Get(tc.header); v != tc.want {
			t.Errorf("%s: header %s = %q, want %q", tc.name, tc.header, v, tc.want)
		}
	}
}

func TestRetryAfterFallback(t *testing.T) {
	h := http.Header{}
	if d := retryAfter(h); d != defaultRetryAfter {
		t.Errorf("missing header: got %v", d)
	}
	h.Set("Retry-After", "not-a-number")
	if d := retryAfter(h); d != defaultRetryAfter {
		t.Errorf("non-numeric header: got %v", d)
	}
	h.Set("Retry-After", "5")
	if d := retryAfter(h); d != 5*time.Second {
		t.Errorf("numeric header: got %v", d)
	}
}

func TestExtractErrorMessage(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"error":{"message":"item not found"}}`, "item not found"},
		{`{"errors":"Not Found"}`, "Not Found"},
		{`plain text failure`, "plain text failure"},
		{``, "empty error response"},
	}
	for _, tc := range cases {
		if got := extractErrorMessage([]byte(tc.body)); got != tc.want {
			t.Errorf("extractErrorMessage(%q) = %q, want %q", tc.body, got, tc.want)
		}
	}
}
