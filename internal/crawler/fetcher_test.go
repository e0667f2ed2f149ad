package crawler

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(testConfig())
}

func TestHTTPFetcherOutcomes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><a href="/x">x</a></html>`))
	})
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<html>missing</html>"))
	})
	mux.HandleFunc("/plain404", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/upper", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "TEXT/HTML")
		_, _ = w.Write([]byte("<html></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := newTestFetcher()
	defer func() { _ = fetcher.Close() }()

	tests := []struct {
		path     string
		expected FetchOutcome
		status   int
	}{
		{"/page", OutcomeOK, 200},
		{"/json", OutcomeNotHTML, 200},
		{"/gone", OutcomeBadStatus, 404},
		{"/plain404", OutcomeNotHTML, 404},
		{"/upper", OutcomeOK, 200},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := fetcher.Fetch(context.Background(), server.URL+tt.path)
			if result.Outcome != tt.expected {
				t.Errorf("Expected outcome %s, got %s", tt.expected, result.Outcome)
			}
			if result.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, result.StatusCode)
			}
			if tt.expected == OutcomeOK && len(result.Body) == 0 {
				t.Error("Expected body for OK outcome")
			}
			if tt.expected != OutcomeOK && result.Body != nil {
				t.Error("Expected no body for rejected content")
			}
		})
	}
}

func TestHTTPFetcherDecodesCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write([]byte("<html><title>caf\xe9</title></html>"))
	}))
	defer server.Close()

	fetcher := newTestFetcher()
	defer func() { _ = fetcher.Close() }()

	result := fetcher.Fetch(context.Background(), server.URL)
	if result.Outcome != OutcomeOK {
		t.Fatalf("Expected OK, got %s", result.Outcome)
	}
	if !strings.Contains(string(result.Body), "café") {
		t.Errorf("Expected UTF-8 body, got %q", result.Body)
	}
}

func TestHTTPFetcherTransportErrors(t *testing.T) {
	fetcher := newTestFetcher()
	defer func() { _ = fetcher.Close() }()

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		addr := server.URL
		server.Close()

		result := fetcher.Fetch(context.Background(), addr)
		if result.Outcome != OutcomeTransportError {
			t.Fatalf("Expected transport error, got %s", result.Outcome)
		}
		if result.ErrorType != "connection_failed" {
			t.Errorf("Expected connection_failed, got %s", result.ErrorType)
		}
		if result.Err == nil {
			t.Error("Expected error to be kept")
		}
	})

	t.Run("untrusted certificate", func(t *testing.T) {
		server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
		}))
		defer server.Close()

		result := fetcher.Fetch(context.Background(), server.URL)
		if result.Outcome != OutcomeTransportError {
			t.Fatalf("Expected transport error, got %s", result.Outcome)
		}
		if result.ErrorType != "tls_error" {
			t.Errorf("Expected tls_error, got %s", result.ErrorType)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		defer server.Close()

		cfg := testConfig()
		cfg.RequestTimeout = 50 * time.Millisecond
		slow := NewHTTPFetcher(cfg)
		defer func() { _ = slow.Close() }()

		result := slow.Fetch(context.Background(), server.URL)
		if result.Outcome != OutcomeTransportError || result.ErrorType != "timeout" {
			t.Errorf("Expected timeout transport error, got %s/%s", result.Outcome, result.ErrorType)
		}
	})
}

func TestHTTPFetcherCanceled(t *testing.T) {
	fetcher := newTestFetcher()
	defer func() { _ = fetcher.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := fetcher.Fetch(ctx, "http://example.invalid/")
	if result.Outcome != OutcomeCanceled {
		t.Errorf("Expected canceled outcome, got %s", result.Outcome)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"dns", &net.DNSError{Err: "no such host", Name: "nowhere.invalid"}, "dns_error"},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("refused")}, "connection_failed"},
		{"other", errors.New("unexpected EOF"), "network_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}
