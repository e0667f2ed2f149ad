package crawler

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"syscall"

	"golang.org/x/net/html/charset"

	"github.com/masahif/rovercrawler/internal/config"
)

// HTTPFetcher is the network Fetcher: it waits on the politeness limiter,
// performs the GET, and accepts only 200 responses declared as text/html.
type HTTPFetcher struct {
	client  *HTTPClient
	limiter *RateLimiter
}

// NewHTTPFetcher builds a fetcher from the crawl configuration
func NewHTTPFetcher(cfg config.CrawlConfig) *HTTPFetcher {
	return &HTTPFetcher{
		client:  NewHTTPClient(cfg.UserAgent, cfg.RequestTimeout, cfg.MaxBodySize),
		limiter: NewRateLimiter(cfg.RateLimit),
	}
}

// Fetch implements Fetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) *FetchResult {
	result := &FetchResult{URL: url, FinalURL: url}

	if err := f.limiter.Wait(ctx); err != nil {
		result.Outcome = OutcomeCanceled
		result.Err = err
		return result
	}

	slog.Debug("Fetching", "url", url)

	resp, err := f.client.Get(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			result.Outcome = OutcomeCanceled
			result.Err = ctx.Err()
			return result
		}
		result.Outcome = OutcomeTransportError
		result.Err = err
		result.ErrorType = classifyError(err)
		slog.Debug("Request failed", "url", url, "error_type", result.ErrorType, "error", err)
		return result
	}

	result.FinalURL = resp.FinalURL
	result.StatusCode = resp.StatusCode
	result.ContentType = resp.ContentType
	result.ResponseSize = int64(len(resp.Body))
	result.TTFB = resp.Metrics.TTFB
	result.DownloadTime = resp.Metrics.DownloadTime

	if !strings.Contains(strings.ToLower(resp.ContentType), "text/html") {
		slog.Debug("Skipping non-HTML", "url", url, "content_type", resp.ContentType)
		result.Outcome = OutcomeNotHTML
		return result
	}

	if resp.StatusCode != http.StatusOK {
		slog.Debug("Skipping status", "url", url, "status", resp.StatusCode)
		result.Outcome = OutcomeBadStatus
		return result
	}

	if resp.Truncated {
		slog.Debug("Body truncated", "url", url, "bytes", len(resp.Body))
	}

	result.Outcome = OutcomeOK
	result.Body = decodeBody(resp.Body, resp.ContentType)
	return result
}

// Close releases idle connections
func (f *HTTPFetcher) Close() error {
	f.client.Close()
	return nil
}

// decodeBody converts the body to UTF-8 using the declared or sniffed
// charset. The raw bytes are kept when decoding fails.
func decodeBody(body []byte, contentType string) []byte {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return body
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return decoded
}

// classifyError maps a transport error to the error type stored with it
func classifyError(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns_error"
	}

	var certErr *tls.CertificateVerificationError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var invalidCert x509.CertificateInvalidError
	var recordErr tls.RecordHeaderError
	if errors.As(err, &certErr) || errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostnameErr) || errors.As(err, &invalidCert) ||
		errors.As(err, &recordErr) {
		return "tls_error"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return "connection_failed"
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return "connection_failed"
	}

	return "network_error"
}
